package core

// NativeTone drives tones through hardware that generates the square wave by
// itself (PWM slice, PIO state machine). No interrupt is involved.
type NativeTone struct {
	driver FrequencyDriver

	pin     GPIOPin
	freq    uint32
	hasPin  bool
	playing bool
}

// NewNativeTone creates a tone generator on top of a FrequencyDriver
func NewNativeTone(driver FrequencyDriver) *NativeTone {
	return &NativeTone{driver: driver}
}

// Init forgets the programmed frequency
func (t *NativeTone) Init() {
	t.freq = 0
}

// SetTone plays hz on pin, moving the output off any previous pin.
// The driver is only touched when the pin, the frequency or the run state
// changes.
func (t *NativeTone) SetTone(pin GPIOPin, hz uint32) error {
	if hz == 0 {
		return t.StopTone(pin)
	}
	RecordToneEvent(EvtToneSet, pin, hz, 0)

	if t.hasPin && pin != t.pin {
		if err := t.driver.Silence(t.pin); err != nil {
			return err
		}
		RecordToneEvent(EvtToneSwitch, pin, uint32(t.pin), 0)
		t.playing = false
	}

	if hz != t.freq || pin != t.pin || !t.playing {
		if err := t.driver.SetFrequency(pin, hz); err != nil {
			return err
		}
		RecordToneEvent(EvtToneReconfig, pin, hz, 0)
	}

	t.pin = pin
	t.freq = hz
	t.hasPin = true
	t.playing = true
	return nil
}

// StopTone silences the active pin
func (t *NativeTone) StopTone(pin GPIOPin) error {
	RecordToneEvent(EvtToneStop, t.pin, uint32(pin), 0)
	if t.hasPin && pin != t.pin && IsDebugEnabled() {
		DebugPrintln("tone: stop pin=" + utoa(uint32(pin)) + " but active pin=" + utoa(uint32(t.pin)))
	}

	t.playing = false
	if !t.hasPin {
		return nil
	}
	return t.driver.Silence(t.pin)
}

// Active reports the current pin, frequency and run state
func (t *NativeTone) Active() (GPIOPin, uint32, bool) {
	return t.pin, t.freq, t.playing
}
