//go:build rp2040

package main

import (
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"

	"dsofw/protocol"
)

// buildRefClockProgram toggles one pin every PIO cycle, giving a square
// wave at half the state machine clock
func buildRefClockProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Set(rp2pio.SetDestPins, 1).Encode(), // 0: set pins, 1
		asm.Set(rp2pio.SetDestPins, 0).Encode(), // 1: set pins, 0
		// .wrap
	}
}

// pioRefClock implements core.ReferenceClock with a PIO state machine
type pioRefClock struct {
	pio *rp2pio.PIO
	sm  rp2pio.StateMachine
	pin machine.Pin

	loaded bool
	offset uint8
}

// newRefClock selects PIO block pioNum (0 or 1) and state machine smNum
func newRefClock(pin machine.Pin, pioNum, smNum uint8) *pioRefClock {
	pioHW := rp2pio.PIO0
	if pioNum != 0 {
		pioHW = rp2pio.PIO1
	}
	return &pioRefClock{
		pio: pioHW,
		sm:  pioHW.StateMachine(smNum),
		pin: pin,
	}
}

// Configure implements core.ReferenceClock
func (c *pioRefClock) Configure(hz uint32) error {
	program := buildRefClockProgram()
	if !c.loaded {
		c.sm.TryClaim()
		offset, err := c.pio.AddProgram(program, -1)
		if err != nil {
			return err
		}
		c.offset = offset
		c.loaded = true
	}
	offset := c.offset
	c.sm.SetEnabled(false)

	c.pin.Configure(machine.PinConfig{Mode: c.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetSetPins(c.pin, 1)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)
	// two instructions per period
	whole, frac := protocol.ClockDivider(machine.CPUFrequency(), 2*hz)
	cfg.SetClkDivIntFrac(whole, frac)

	c.sm.Init(offset, cfg)
	c.sm.SetPindirsConsecutive(c.pin, 1, true)
	c.sm.SetPinsConsecutive(c.pin, 1, false)
	c.sm.SetEnabled(true)
	return nil
}
