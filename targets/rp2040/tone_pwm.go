//go:build rp2040 && !piotone

package main

import (
	"machine"

	"tinygo.org/x/drivers/tone"

	"sidetone/core"
)

// pwmPeripheral is the subset of TinyGo's unexported *pwmGroup that
// drivers/tone needs
type pwmPeripheral interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
	SetPeriod(period uint64) error
}

// PWMToneDriver implements core.FrequencyDriver with a 50% duty PWM slice
// per pin. Both pins of a slice share one period, so only one of them
// should carry a tone.
type PWMToneDriver struct {
	speakers map[core.GPIOPin]tone.Speaker
}

func newFrequencyDriver() core.FrequencyDriver {
	return NewPWMToneDriver()
}

// NewPWMToneDriver creates an RP2040 PWM tone driver
func NewPWMToneDriver() *PWMToneDriver {
	return &PWMToneDriver{
		speakers: make(map[core.GPIOPin]tone.Speaker),
	}
}

// SetFrequency starts a square wave of hz on pin
func (d *PWMToneDriver) SetFrequency(pin core.GPIOPin, hz uint32) error {
	if hz == 0 {
		return d.Silence(pin)
	}

	speaker, exists := d.speakers[pin]
	if !exists {
		var err error
		speaker, err = tone.New(getPWMPeripheral(pin), machine.Pin(pin))
		if err != nil {
			return err
		}
		d.speakers[pin] = speaker
	}

	speaker.SetPeriod(1e9 / uint64(hz))
	return nil
}

// Silence stops the slice output, leaving the pin low
func (d *PWMToneDriver) Silence(pin core.GPIOPin) error {
	if speaker, exists := d.speakers[pin]; exists {
		speaker.Stop()
	}
	return nil
}

// getPWMPeripheral returns the PWM slice driving pin.
// GPIO N maps to slice (N >> 1) & 7.
func getPWMPeripheral(pin core.GPIOPin) pwmPeripheral {
	switch (uint32(pin) >> 1) & 0x7 {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}
