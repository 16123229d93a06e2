package core

// TimerSpec describes a single-channel compare-match timer
type TimerSpec struct {
	ClockHz         uint32 // Timer input clock before prescaling
	CompareMax      uint32 // Largest scaled half-period count accepted (255 for 8-bit)
	MaxPrescaleStep uint8  // Highest prescaler step; step N divides by 1<<(N-1)
}

// TimerConfig is one programmed timer setting
type TimerConfig struct {
	PrescaleStep uint8  // Prescaler select bits, 1 = divide by 1
	Divisor      uint32 // Clock division factor for PrescaleStep
	Compare      uint32 // Value loaded into the compare register
}

// Frequency returns the square wave frequency produced when the pin is
// toggled on every compare match
func (c TimerConfig) Frequency(spec TimerSpec) uint32 {
	if c.Divisor == 0 {
		return 0
	}
	return spec.ClockHz / (c.Divisor * (c.Compare + 1)) / 2
}

// CompareTimer is the abstract compare-match timer interface that the
// emulated tone generator uses.
// Platform-specific implementations handle actual register access.
type CompareTimer interface {
	// Spec returns the timer's fixed clock and register limits
	Spec() TimerSpec

	// SetCompareInterrupt masks (false) or unmasks (true) the compare-match interrupt
	SetCompareInterrupt(enabled bool)

	// Program loads the compare register and starts the timer with the
	// prescaler in cfg. Callers mask the interrupt first.
	Program(cfg TimerConfig)
}

// ComputeTimerConfig picks the smallest prescaler whose scaled half-period
// count fits the compare register.
// clamped reports that hz lies outside what the timer can represent and the
// nearest representable setting was returned instead.
func ComputeTimerConfig(spec TimerSpec, hz uint32) (cfg TimerConfig, clamped bool) {
	if hz == 0 || spec.MaxPrescaleStep == 0 {
		return TimerConfig{}, true
	}

	count := spec.ClockHz / hz / 2
	if count == 0 {
		// Faster than the timer can toggle
		return TimerConfig{PrescaleStep: 1, Divisor: 1, Compare: 0}, true
	}

	step := uint8(1)
	for count > spec.CompareMax {
		if step == spec.MaxPrescaleStep {
			// Slower than the largest prescaler allows
			return TimerConfig{
				PrescaleStep: step,
				Divisor:      1 << (step - 1),
				Compare:      spec.CompareMax - 1,
			}, true
		}
		step++
		count /= 2
	}

	return TimerConfig{
		PrescaleStep: step,
		Divisor:      1 << (step - 1),
		Compare:      count - 1,
	}, false
}

// FrequencyRange returns the lowest and highest frequencies ComputeTimerConfig
// can represent without clamping
func FrequencyRange(spec TimerSpec) (minHz, maxHz uint32) {
	maxHz = spec.ClockHz / 2
	if spec.MaxPrescaleStep == 0 {
		return 0, 0
	}
	// The count must satisfy count>>(MaxPrescaleStep-1) <= CompareMax
	limit := uint64(spec.CompareMax+1) << (spec.MaxPrescaleStep - 1)
	half := uint64(spec.ClockHz / 2)
	// Smallest hz with half/hz < limit
	minHz = uint32(half/limit) + 1
	if minHz > maxHz {
		minHz = maxHz
	}
	return minHz, maxHz
}
