//go:build avr

package core

// 512 bytes of SRAM on the ATtiny85
const (
	ToneRingSize = 4
)
