//go:build !avr

package core

const (
	ToneRingSize = 16 // Keep last 16 events for post-mortem
)
