//go:build rp2040 && piotone

package main

import (
	"sidetone/core"
	"sidetone/targets/pio"
)

func newFrequencyDriver() core.FrequencyDriver {
	return pio.NewPIOToneDriver(0, 0)
}
