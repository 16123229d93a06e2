package core

import "math"

// TimerFreq is the system tick rate. Both targets feed SetTime from a
// microsecond clock.
const (
	TimerFreq = 1000000

	// MaxTimerTicks is the furthest ahead a timer can be scheduled; the
	// wrap-safe comparison treats anything later as already past
	MaxTimerTicks = math.MaxInt32

	// MaxToneMS is the longest duration ToneFor accepts, in whole milliseconds
	MaxToneMS = MaxTimerTicks / TimerFreq * 1000
)

// GetTime returns the current system time in timer ticks
func GetTime() uint32 {
	return getSystemTicks()
}

// SetTime sets the current system time (for testing/hardware integration)
func SetTime(ticks uint32) {
	setSystemTicks(ticks)
}

// TimerFromMS converts milliseconds to timer ticks
func TimerFromMS(ms uint32) uint32 {
	return uint32(uint64(ms) * TimerFreq / 1000)
}

// TimerToMS converts timer ticks to milliseconds
func TimerToMS(ticks uint32) uint32 {
	return uint32(uint64(ticks) * 1000 / TimerFreq)
}

// ProcessTimers processes scheduled timers
func ProcessTimers() {
	currentTime = GetTime()
	TimerDispatch()
}
