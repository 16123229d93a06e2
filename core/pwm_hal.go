package core

// FrequencyDriver is the HAL for hardware that can emit a square wave on its own
// (PWM slice, PIO state machine). NativeTone sits on top of it.
type FrequencyDriver interface {
	// SetFrequency starts a 50% square wave of hz on pin, replacing any
	// previous frequency on that pin
	SetFrequency(pin GPIOPin, hz uint32) error

	// Silence stops the output and leaves the pin low
	Silence(pin GPIOPin) error
}

// Global singleton used by core code.
var frequencyDriver FrequencyDriver

// SetFrequencyDriver is called by target-specific code to register its driver.
func SetFrequencyDriver(d FrequencyDriver) {
	frequencyDriver = d
}

// MustFrequency returns the configured driver or panics if missing.
func MustFrequency() FrequencyDriver {
	if frequencyDriver == nil {
		panic("frequency driver not configured")
	}
	return frequencyDriver
}
