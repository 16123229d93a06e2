package core

import (
	"sidetone/protocol"
)

// fakeGPIO records pin levels instead of touching hardware
type fakeGPIO struct {
	outputs map[GPIOPin]bool
	levels  map[GPIOPin]bool
	toggles map[GPIOPin]int
	writes  int
}

func newFakeGPIO() *fakeGPIO {
	return &fakeGPIO{
		outputs: make(map[GPIOPin]bool),
		levels:  make(map[GPIOPin]bool),
		toggles: make(map[GPIOPin]int),
	}
}

func (g *fakeGPIO) ConfigureOutput(pin GPIOPin) error {
	g.outputs[pin] = true
	return nil
}

func (g *fakeGPIO) SetPin(pin GPIOPin, value bool) error {
	g.levels[pin] = value
	g.writes++
	return nil
}

func (g *fakeGPIO) TogglePin(pin GPIOPin) {
	g.levels[pin] = !g.levels[pin]
	g.toggles[pin]++
}

// fakeTimer is an 8-bit compare timer that counts register writes
type fakeTimer struct {
	spec         TimerSpec
	irqEnabled   bool
	irqEnables   int
	programs     int
	cfg          TimerConfig
	irqAtProgram bool // interrupt state seen by the last Program call
}

func newFakeTimer(clockHz uint32) *fakeTimer {
	return &fakeTimer{spec: TimerSpec{ClockHz: clockHz, CompareMax: 255, MaxPrescaleStep: 15}}
}

func (f *fakeTimer) Spec() TimerSpec {
	return f.spec
}

func (f *fakeTimer) SetCompareInterrupt(enabled bool) {
	f.irqEnabled = enabled
	if enabled {
		f.irqEnables++
	}
}

func (f *fakeTimer) Program(cfg TimerConfig) {
	f.programs++
	f.cfg = cfg
	f.irqAtProgram = f.irqEnabled
}

// fakeFrequencyDriver records calls from NativeTone
type fakeFrequencyDriver struct {
	freqs    map[GPIOPin]uint32
	silenced map[GPIOPin]int
	sets     int
}

func newFakeFrequencyDriver() *fakeFrequencyDriver {
	return &fakeFrequencyDriver{
		freqs:    make(map[GPIOPin]uint32),
		silenced: make(map[GPIOPin]int),
	}
}

func (d *fakeFrequencyDriver) SetFrequency(pin GPIOPin, hz uint32) error {
	d.freqs[pin] = hz
	d.sets++
	return nil
}

func (d *fakeFrequencyDriver) Silence(pin GPIOPin) error {
	d.freqs[pin] = 0
	d.silenced[pin]++
	return nil
}

// captureSender collects responses sent through SendResponse
type captureSender struct {
	ids      []uint16
	payloads [][]byte
}

func (c *captureSender) SendCommand(cmdID uint16, args func(output protocol.OutputBuffer)) {
	output := protocol.NewScratchOutput()
	if args != nil {
		args(output)
	}
	payload := make([]byte, len(output.Result()))
	copy(payload, output.Result())
	c.ids = append(c.ids, cmdID)
	c.payloads = append(c.payloads, payload)
}

// resetToneState clears package globals between tests
func resetToneState() {
	toneGenerator = nil
	timerList = nil
	toneStop.timer = Timer{}
	responseSender = nil
	SetTime(0)
	ClearToneEvents()
	SetDebugEnabled(false)
	SetDebugWriter(func(string) {})
}
