package core

import (
	"dsofw/protocol"
)

// CaptureOutcome tells how a capture ended
type CaptureOutcome uint8

const (
	CaptureCompleted CaptureOutcome = iota // capture RAM reported full
	CaptureCancelled                       // host sent CmdStop
)

func (o CaptureOutcome) String() string {
	if o == CaptureCancelled {
		return "cancelled"
	}
	return "completed"
}

// CaptureResult summarizes one acquisition attempt
type CaptureResult struct {
	Outcome CaptureOutcome
	Polls   uint32 // wait loop iterations before the exit condition held
}

// Capture arms the capture logic, optionally forces the trigger, and waits
// until the RAM is full or the host sends CmdStop. Either way the host is
// sent ReplyCaptureDone. There is no timeout.
//
// Any byte other than CmdStop received while waiting is discarded.
func (d *Device) Capture(force bool) (CaptureResult, error) {
	var res CaptureResult
	b := d.board

	d.mode = ModeCapturing
	defer func() { d.mode = ModeIdle }()

	if err := b.RAMRead.SetLevel(false); err != nil {
		return res, err
	}
	if err := pulse(b.Enable); err != nil {
		return res, err
	}
	if force {
		if err := pulse(b.Force); err != nil {
			return res, err
		}
	}
	d.events.Record(EvtCaptureArmed, boolByte(force), 0)

	b.delay(SettleMicros)

	for {
		if d.PollHook != nil {
			d.PollHook()
		}
		if c, ok := b.Serial.TryReceiveByte(); ok && c == protocol.CmdStop {
			res.Outcome = CaptureCancelled
			break
		}
		if b.FillComplete.ReadLevel() {
			res.Outcome = CaptureCompleted
			break
		}
		res.Polls++
	}

	if res.Outcome == CaptureCancelled {
		d.events.Record(EvtCaptureCancelled, 0, res.Polls)
	} else {
		d.events.Record(EvtCaptureDone, 0, res.Polls)
	}
	return res, b.Serial.SendByte(protocol.ReplyCaptureDone)
}

func boolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}
