//go:build rp2040

package pio

import (
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"

	"sidetone/core"
)

// buildToneProgram creates a two-instruction square wave: the SET pin is
// high for 32 cycles, then low for 32. Frequency is set entirely by the
// state machine clock divider.
func buildToneProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Set(rp2pio.SetDestPins, 1).Delay(31).Encode(), // 0: set pins, 1 [31]
		asm.Set(rp2pio.SetDestPins, 0).Delay(31).Encode(), // 1: set pins, 0 [31]
		// .wrap
	}
}

const toneProgramOrigin = 0

// PIOToneDriver implements core.FrequencyDriver on one PIO state machine.
// The state machine follows whichever pin was last given a frequency.
type PIOToneDriver struct {
	pio     *rp2pio.PIO
	sm      rp2pio.StateMachine
	offset  uint8
	loaded  bool
	pin     machine.Pin
	running bool
}

// NewPIOToneDriver creates a tone driver on PIO pioNum, state machine smNum
func NewPIOToneDriver(pioNum, smNum uint8) *PIOToneDriver {
	var pioHW *rp2pio.PIO
	if pioNum == 0 {
		pioHW = rp2pio.PIO0
	} else {
		pioHW = rp2pio.PIO1
	}

	return &PIOToneDriver{
		pio: pioHW,
		sm:  pioHW.StateMachine(smNum),
	}
}

// load claims the state machine and installs the program once
func (d *PIOToneDriver) load() error {
	if d.loaded {
		return nil
	}

	d.sm.TryClaim()

	program := buildToneProgram()
	offset, err := d.pio.AddProgram(program, toneProgramOrigin)
	if err != nil {
		return err
	}
	d.offset = offset
	d.loaded = true
	return nil
}

// SetFrequency starts (or retunes) the square wave on pin
func (d *PIOToneDriver) SetFrequency(pin core.GPIOPin, hz uint32) error {
	if hz == 0 {
		return d.Silence(pin)
	}
	if err := d.load(); err != nil {
		return err
	}

	whole, frac := ClockDivider(machine.CPUFrequency(), hz)

	d.sm.SetEnabled(false)

	d.pin = machine.Pin(pin)
	d.pin.Configure(machine.PinConfig{Mode: d.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetSetPins(d.pin, 1)
	cfg.SetWrap(d.offset+1, d.offset)
	cfg.SetClkDivIntFrac(whole, frac)

	// Init resets the program counter, so a retune restarts the wave low
	d.sm.Init(d.offset, cfg)
	d.sm.SetPindirsConsecutive(d.pin, 1, true)
	d.sm.SetPinsConsecutive(d.pin, 1, false)
	d.sm.SetEnabled(true)
	d.running = true

	return nil
}

// Silence halts the state machine and leaves pin low
func (d *PIOToneDriver) Silence(pin core.GPIOPin) error {
	if !d.loaded || !d.running || machine.Pin(pin) != d.pin {
		return nil
	}

	d.sm.SetEnabled(false)
	d.sm.SetPinsConsecutive(d.pin, 1, false)
	d.running = false
	return nil
}
