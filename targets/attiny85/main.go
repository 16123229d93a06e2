//go:build attiny85

package main

import (
	"device/avr"
	"runtime/interrupt"
	"time"

	"sidetone/core"
)

var (
	toneGen  *core.EmulatedTone
	bootTime time.Time
)

func main() {
	bootTime = time.Now()

	toneGen = core.NewEmulatedTone(PortBDriver{}, Timer1{})
	core.SetToneGenerator(toneGen)

	// AVR vectors are live as soon as they are registered; the TIMSK mask
	// in Timer1 gates this one
	interrupt.New(avr.IRQ_TIMER1_COMPA, func(interrupt.Interrupt) {
		toneGen.HandleCompareMatch()
	})

	if err := core.ToneInit(); err != nil {
		return
	}

	// Power-on self test: two short beeps at the sidetone pitch
	for i := 0; i < 2; i++ {
		beep(TonePin, Sidetone, 100*time.Millisecond)
		time.Sleep(100 * time.Millisecond)
	}

	// Sweep the sidetone range so the pitch control can be checked by ear
	for hz := uint32(MinSidetone); hz <= MaxSidetone; hz += 250 {
		beep(TonePin, hz, 60*time.Millisecond)
	}
	_ = core.NoTone(TonePin)

	for {
		updateSystemTime()
		core.ProcessTimers()
		time.Sleep(time.Millisecond)
	}
}

// beep plays hz for d, letting the core timer end the tone
func beep(pin core.GPIOPin, hz uint32, d time.Duration) {
	updateSystemTime()
	if err := core.ToneFor(pin, hz, core.TimerFromMS(uint32(d/time.Millisecond))); err != nil {
		return
	}
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		updateSystemTime()
		core.ProcessTimers()
	}
	// The stop timer fires on the first pass at or after the deadline
	updateSystemTime()
	core.ProcessTimers()
}

// updateSystemTime feeds core with microseconds since boot; core handles
// the 32-bit wrap
func updateSystemTime() {
	core.SetTime(uint32(time.Since(bootTime) / time.Microsecond))
}
