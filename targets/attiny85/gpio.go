//go:build attiny85

package main

import (
	"device/avr"
	"machine"

	"sidetone/core"
)

// PortBDriver implements core.GPIODriver for the Trinket's PB0-PB4
type PortBDriver struct{}

func (PortBDriver) ConfigureOutput(pin core.GPIOPin) error {
	machine.Pin(pin).Configure(machine.PinConfig{Mode: machine.PinOutput})
	return nil
}

func (PortBDriver) SetPin(pin core.GPIOPin, value bool) error {
	machine.Pin(pin).Set(value)
	return nil
}

// TogglePin writes a one to the pin's PINB bit, which the hardware turns
// into an output toggle in a single cycle
func (PortBDriver) TogglePin(pin core.GPIOPin) {
	avr.PINB.Set(1 << uint8(pin))
}
