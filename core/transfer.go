package core

import (
	"dsofw/protocol"
)

// TransferResult summarizes one sample transfer session
type TransferResult struct {
	Sent    uint16 // samples emitted, at most protocol.MaxSamples
	Stopped bool   // ended by CmdStop rather than exhaustion
}

// SendSamples switches the capture RAM to read mode and streams samples to
// the host one byte per sample-clock pulse. The session ends after
// protocol.MaxSamples samples or at the first sample boundary after a
// CmdStop arrives.
func (d *Device) SendSamples() (TransferResult, error) {
	var res TransferResult
	b := d.board

	d.mode = ModeTransferring
	defer func() { d.mode = ModeIdle }()

	if err := b.RAMRead.SetLevel(true); err != nil {
		return res, err
	}

	err := d.streamSamples(&res)

	// always hand the RAM back to the capture logic
	if rErr := b.RAMRead.SetLevel(false); err == nil {
		err = rErr
	}
	d.events.Record(EvtTransferDone, boolByte(res.Stopped), uint32(res.Sent))
	return res, err
}

func (d *Device) streamSamples(res *TransferResult) error {
	b := d.board
	for {
		// the stop poll comes first so a pending stop byte is consumed
		// even when the count is exhausted
		if c, ok := b.Serial.TryReceiveByte(); ok && c == protocol.CmdStop {
			res.Stopped = true
			return nil
		}
		if res.Sent >= protocol.MaxSamples {
			return nil
		}

		if err := pulse(b.SampleClock); err != nil {
			return err
		}
		if err := b.Serial.SendByte(b.Bus.ReadSample()); err != nil {
			return err
		}
		res.Sent++
	}
}
