package pio

import "testing"

func TestClockDivider(t *testing.T) {
	const sysHz = 125000000

	tests := []struct {
		hz    uint32
		whole uint16
		frac  uint8
	}{
		{700, 2790, 45},  // 125e6/(64*700) = 2790.178
		{1000, 1953, 32}, // 1953.125
		{2000, 976, 144}, // 976.5625
		{1953125, 1, 0},  // exactly sysHz/64
		{4000000, 1, 0},  // clamps to the fastest divider
		{10, 0xFFFF, 0},  // clamps to the slowest divider
	}

	for _, tt := range tests {
		whole, frac := ClockDivider(sysHz, tt.hz)
		if whole != tt.whole || frac != tt.frac {
			t.Errorf("ClockDivider(%d) = %d.%d, want %d.%d", tt.hz, whole, frac, tt.whole, tt.frac)
		}
	}
}

func TestDividerFrequencyAccuracy(t *testing.T) {
	const sysHz = 125000000

	for _, hz := range []uint32{500, 700, 1000, 1500, 2000} {
		whole, frac := ClockDivider(sysHz, hz)
		got := DividerFrequency(sysHz, whole, frac)
		if got < hz-1 || got > hz+1 {
			t.Errorf("%d Hz request produced %d Hz", hz, got)
		}
	}
}
