//go:build attiny85

package main

import (
	"device/avr"

	"sidetone/core"
)

// Timer1 drives the tone from the ATtiny85's 8-bit Timer1 in CTC mode:
// the counter clears when it reaches OCR1C and raises the compare-match
// interrupt each time.
type Timer1 struct{}

// timer1Spec is Timer1 clocked from the system clock with the 15
// power-of-two prescaler steps in TCCR1.CS1
var timer1Spec = core.TimerSpec{
	ClockHz:         cpuFrequency,
	CompareMax:      255,
	MaxPrescaleStep: 15,
}

func (Timer1) Spec() core.TimerSpec {
	return timer1Spec
}

func (Timer1) SetCompareInterrupt(enabled bool) {
	if enabled {
		avr.TIMSK.SetBits(avr.TIMSK_OCIE1A)
	} else {
		avr.TIMSK.ClearBits(avr.TIMSK_OCIE1A)
	}
}

// Program loads OCR1C and starts the timer. Writing TCCR1 with a non-zero
// prescaler is what starts the count.
func (Timer1) Program(cfg core.TimerConfig) {
	avr.OCR1C.Set(uint8(cfg.Compare))
	avr.TCCR1.Set(avr.TCCR1_CTC1 | cfg.PrescaleStep&0x0F)
}
