//go:build rp2040

package main

import (
	"machine"

	"dsofw/core"
)

// pinLine implements core.Line over a GPIO pin
type pinLine struct {
	pin machine.Pin
}

func newPinLine(pin machine.Pin) *pinLine {
	return &pinLine{pin: pin}
}

// SetDirection implements core.Line. The SIO output latch survives the
// switch, so a level set while the pin is an input is driven once it
// becomes an output.
func (l *pinLine) SetDirection(dir core.Direction) error {
	mode := machine.PinInput
	if dir == core.DirectionOutput {
		mode = machine.PinOutput
	}
	l.pin.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (l *pinLine) SetLevel(on bool) error {
	l.pin.Set(on)
	return nil
}

func (l *pinLine) ReadLevel() bool {
	return l.pin.Get()
}
