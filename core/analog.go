package core

import (
	"dsofw/protocol"
)

// SetMultiplier drives the PLL select lines for multiplier multi:
//
//	2: both lines tri-stated (latch low, input)
//	4: both lines driven low
//	8: both lines driven high
//
// Any other value leaves the lines and the state untouched.
func (d *Device) SetMultiplier(multi uint8) error {
	var (
		level bool
		dir   Direction
	)
	switch multi {
	case 2:
		level, dir = false, DirectionInput
	case 4:
		level, dir = false, DirectionOutput
	case 8:
		level, dir = true, DirectionOutput
	default:
		return nil
	}

	for _, l := range []Line{d.board.PLLS0, d.board.PLLS1} {
		if err := l.SetLevel(level); err != nil {
			return err
		}
		if err := l.SetDirection(dir); err != nil {
			return err
		}
	}
	d.state.PLLMultiplier = multi
	return nil
}

// SetDACValue writes value to the DAC as a two byte command with chip
// select held low across both bytes. Bytes clocked back are discarded.
func (d *Device) SetDACValue(value uint8) error {
	hi, lo := protocol.DACFrame(value)
	cs := d.board.DACSelect

	if err := cs.SetLevel(false); err != nil {
		return err
	}
	_, err := d.board.DAC.Transfer(hi)
	if err == nil {
		_, err = d.board.DAC.Transfer(lo)
	}
	// release chip select even when the exchange failed
	if csErr := cs.SetLevel(true); err == nil {
		err = csErr
	}
	if err != nil {
		return err
	}

	d.state.DACValue = value
	return nil
}

// SetEdge selects the trigger edge from a CmdEdge sub-code. Sub-codes
// other than EdgeRising and EdgeFalling are ignored.
func (d *Device) SetEdge(code byte) error {
	var edge EdgePolarity
	switch code {
	case protocol.EdgeRising:
		edge = EdgeRising
	case protocol.EdgeFalling:
		edge = EdgeFalling
	default:
		return nil
	}
	if err := d.board.EdgeSelect.SetLevel(edge == EdgeFalling); err != nil {
		return err
	}
	d.state.Edge = edge
	return nil
}

// ToggleBaud re-initializes the serial link at the other speed
func (d *Device) ToggleBaud() error {
	next := SpeedFast
	if d.state.Speed == SpeedFast {
		next = SpeedNormal
	}
	d.state.Speed = next
	return d.board.Serial.Init(next.Baud())
}
