package core

// EmulatedTone generates a tone on parts without tone hardware by toggling a
// GPIO from a compare-match interrupt. The interrupt fires at twice the tone
// frequency, so each toggle is one half period.
//
// There is one compare timer, so there is one EmulatedTone per firmware image.
// The target creates it, registers it with SetToneGenerator and hooks
// HandleCompareMatch to the timer's interrupt vector.
type EmulatedTone struct {
	gpio  GPIODriver
	timer CompareTimer

	// pin is the only field HandleCompareMatch reads. Writes happen with
	// interrupts masked so the handler never sees a half-written value.
	pin GPIOPin

	freq      uint32 // Last programmed frequency, 0 = none
	cfg       TimerConfig
	hasPin    bool // pin has been configured as an output at least once
	playing   bool
	reconfigs uint32
}

// NewEmulatedTone creates the compare-interrupt tone generator
func NewEmulatedTone(gpio GPIODriver, timer CompareTimer) *EmulatedTone {
	return &EmulatedTone{
		gpio:  gpio,
		timer: timer,
	}
}

// Init forgets the programmed frequency
func (t *EmulatedTone) Init() {
	t.freq = 0
}

// SetTone starts a square wave of hz on pin.
// The timer is only reprogrammed when hz differs from the last call; the
// compare interrupt is enabled every time so a stopped tone or a new pin
// resumes without touching the timer.
func (t *EmulatedTone) SetTone(pin GPIOPin, hz uint32) error {
	if hz == 0 {
		return t.StopTone(pin)
	}
	RecordToneEvent(EvtToneSet, pin, hz, 0)

	prev := t.pin
	switched := t.hasPin && pin != prev
	retune := hz != t.freq

	if retune || switched {
		// Clean starting level before the interrupt begins toggling it
		if err := t.gpio.ConfigureOutput(pin); err != nil {
			return err
		}
		if err := t.gpio.SetPin(pin, false); err != nil {
			return err
		}
	}

	t.setPin(pin)
	t.hasPin = true

	if switched {
		// The handler has moved on, park the old pin low
		if err := t.gpio.SetPin(prev, false); err != nil {
			return err
		}
		RecordToneEvent(EvtToneSwitch, pin, uint32(prev), 0)
	}

	if retune {
		t.freq = hz
		spec := t.timer.Spec()
		cfg, clamped := ComputeTimerConfig(spec, hz)
		if clamped {
			RecordToneEvent(EvtToneClamp, pin, hz, cfg.Frequency(spec))
			if IsDebugEnabled() {
				DebugPrintln("tone: " + utoa(hz) + "Hz out of range, using " + utoa(cfg.Frequency(spec)) + "Hz")
			}
		}

		// Mask the interrupt so it never runs against a half-written timer
		t.timer.SetCompareInterrupt(false)
		t.timer.Program(cfg)
		t.cfg = cfg
		t.reconfigs++
		RecordToneEvent(EvtToneReconfig, pin, uint32(cfg.PrescaleStep), cfg.Compare)
	}

	t.timer.SetCompareInterrupt(true)
	t.playing = true
	return nil
}

// StopTone masks the compare interrupt and drives the active pin low.
// A pin that does not match the active one is logged and otherwise ignored.
func (t *EmulatedTone) StopTone(pin GPIOPin) error {
	RecordToneEvent(EvtToneStop, t.pin, uint32(pin), 0)
	if t.hasPin && pin != t.pin && IsDebugEnabled() {
		DebugPrintln("tone: stop pin=" + utoa(uint32(pin)) + " but active pin=" + utoa(uint32(t.pin)))
	}

	t.timer.SetCompareInterrupt(false)
	t.playing = false
	if !t.hasPin {
		return nil
	}
	return t.gpio.SetPin(t.pin, false)
}

// HandleCompareMatch is the compare-match interrupt handler.
// It toggles the active pin and nothing else.
func (t *EmulatedTone) HandleCompareMatch() {
	t.gpio.TogglePin(t.pin)
}

// Active reports the toggle target, programmed frequency and run state
func (t *EmulatedTone) Active() (GPIOPin, uint32, bool) {
	return t.pin, t.freq, t.playing
}

// TimerConfig returns the last programmed timer setting
func (t *EmulatedTone) TimerConfig() TimerConfig {
	return t.cfg
}

// Reconfigurations returns how many times the timer has been reprogrammed
func (t *EmulatedTone) Reconfigurations() uint32 {
	return t.reconfigs
}

// setPin publishes the toggle target to the interrupt handler
func (t *EmulatedTone) setPin(pin GPIOPin) {
	state := disableInterrupts()
	t.pin = pin
	restoreInterrupts(state)
}
