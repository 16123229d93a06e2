//go:build attiny85

package main

import "sidetone/core"

// Trinket keyer wiring and sidetone settings
const (
	TonePin core.GPIOPin = 4 // Speaker on PB4

	Sidetone    = 700 // Hz
	MinSidetone = 500
	MaxSidetone = 2000

	// F_CPU of the 8 MHz Trinket
	cpuFrequency = 8000000
)
