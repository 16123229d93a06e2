// Tone output support
// Drop-in replacement for the Arduino tone()/noTone() pair. Targets register
// whichever ToneGenerator their hardware supports and callers only ever use
// Tone, NoTone and ToneFor.
package core

import "errors"

var (
	ErrNoTone          = errors.New("tone generator not configured")
	ErrDurationTooLong = errors.New("tone duration too long")
)

// ToneGenerator drives a square wave on one GPIO pin at a time.
// Only one pin is ever live; calling SetTone with a different pin moves the
// output there.
type ToneGenerator interface {
	// Init forgets the programmed frequency so the next SetTone always
	// reprograms the hardware
	Init()

	// SetTone starts (or retargets) a square wave of hz on pin.
	// hz == 0 behaves like StopTone.
	SetTone(pin GPIOPin, hz uint32) error

	// StopTone silences the active pin and leaves it low.
	// The pin argument is not used to choose which pin is silenced.
	StopTone(pin GPIOPin) error

	// Active reports the current toggle target, its frequency and whether
	// the output is running
	Active() (pin GPIOPin, hz uint32, playing bool)
}

// Global singleton used by core code.
var toneGenerator ToneGenerator

// SetToneGenerator is called by target-specific code to register its generator.
func SetToneGenerator(g ToneGenerator) {
	toneGenerator = g
}

// MustTone returns the configured generator or panics if missing.
func MustTone() ToneGenerator {
	if toneGenerator == nil {
		panic("tone generator not configured")
	}
	return toneGenerator
}

// ToneInit resets the registered generator
func ToneInit() error {
	if toneGenerator == nil {
		return ErrNoTone
	}
	cancelToneStop()
	toneGenerator.Init()
	return nil
}

// Tone plays hz on pin until NoTone is called
func Tone(pin GPIOPin, hz uint32) error {
	if toneGenerator == nil {
		return ErrNoTone
	}
	cancelToneStop()
	return toneGenerator.SetTone(pin, hz)
}

// NoTone silences the active tone
func NoTone(pin GPIOPin) error {
	if toneGenerator == nil {
		return ErrNoTone
	}
	cancelToneStop()
	return toneGenerator.StopTone(pin)
}

// ToneFor plays hz on pin and schedules NoTone after ticks timer ticks.
// ticks == 0 plays until stopped, like Tone. ticks above MaxTimerTicks is
// rejected without touching the output.
func ToneFor(pin GPIOPin, hz uint32, ticks uint32) error {
	if ticks > MaxTimerTicks {
		return ErrDurationTooLong
	}
	if err := Tone(pin, hz); err != nil {
		return err
	}
	if ticks == 0 || hz == 0 {
		return nil
	}

	toneStop.pin = pin
	toneStop.timer.WakeTime = GetTime() + ticks
	toneStop.timer.Handler = toneStopEvent
	ScheduleTimer(&toneStop.timer)
	return nil
}

// toneStop is the one pending timed stop; there is only one live tone
var toneStop struct {
	timer Timer
	pin   GPIOPin
}

// toneStopEvent is the timer handler that ends a timed tone
func toneStopEvent(t *Timer) uint8 {
	RecordToneEvent(EvtToneExpire, toneStop.pin, 0, 0)
	if toneGenerator != nil {
		_ = toneGenerator.StopTone(toneStop.pin)
	}
	return SF_DONE
}

// cancelToneStop drops a pending timed stop, if any
func cancelToneStop() {
	CancelTimer(&toneStop.timer)
}
