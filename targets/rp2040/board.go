//go:build rp2040

package main

import "sidetone/core"

// Speaker wiring for the Pico keyer board
const (
	TonePin core.GPIOPin = 15

	// debugTone enables tone debug lines and an event dump on host reset
	debugTone = false
)
