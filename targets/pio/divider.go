package pio

// toneCyclesPerPeriod is the length of the tone program's loop: two SET
// instructions of 32 cycles each.
const toneCyclesPerPeriod = 64

// ClockDivider returns the state machine clock divider (16.8 fixed point)
// that makes the tone program run at hz from a sysHz system clock.
// Out-of-range requests clamp to the nearest divider the hardware accepts.
func ClockDivider(sysHz, hz uint32) (whole uint16, frac uint8) {
	if hz == 0 {
		return 0xFFFF, 0
	}

	div := uint64(sysHz) * 256 / (uint64(hz) * toneCyclesPerPeriod)
	if div < 256 {
		return 1, 0
	}
	if div > 0xFFFF<<8 {
		return 0xFFFF, 0
	}
	return uint16(div >> 8), uint8(div)
}

// DividerFrequency is the tone frequency a divider actually produces
func DividerFrequency(sysHz uint32, whole uint16, frac uint8) uint32 {
	div := uint64(whole)<<8 | uint64(frac)
	if div == 0 {
		return 0
	}
	return uint32(uint64(sysHz) * 256 / (div * toneCyclesPerPeriod))
}
