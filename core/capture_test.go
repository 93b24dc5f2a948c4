package core

import (
	"testing"

	"dsofw/protocol"
)

// fillAfter makes the fill-complete line go high after n reads
func fillAfter(l *mockLine, n int) {
	reads := 0
	l.input = func() bool {
		reads++
		return reads > n
	}
}

func TestCapturePulses(t *testing.T) {
	for _, force := range []bool{false, true} {
		tb := newTestBoard()
		d := tb.device(t)
		fillAfter(tb.lines["fill"], 3)

		res, err := d.Capture(force)
		if err != nil {
			t.Fatalf("Capture(%v) failed: %v", force, err)
		}
		if res.Outcome != CaptureCompleted {
			t.Errorf("Expected completed capture, got %s", res.Outcome)
		}
		if res.Polls != 3 {
			t.Errorf("Expected 3 polls, got %d", res.Polls)
		}

		if tb.count("enable=1") != 1 || tb.count("enable=0") != 1 {
			t.Errorf("Expected exactly one enable pulse, log %v", tb.rec.log)
		}
		if tb.index("enable=1") > tb.index("enable=0") {
			t.Error("Enable pulse should rise before it falls")
		}

		forcePulses := tb.count("force=1")
		if force && forcePulses != 1 {
			t.Errorf("Expected one force pulse, got %d", forcePulses)
		}
		if !force && forcePulses != 0 {
			t.Errorf("Expected no force pulse, got %d", forcePulses)
		}

		if tb.index("ramread=0") != 0 {
			t.Errorf("RAM read should be deasserted first, log %v", tb.rec.log)
		}
		last := tb.index("enable=0")
		if force {
			last = tb.index("force=0")
		}
		if tb.index("delay:10") < last {
			t.Errorf("Settle delay must follow the pulses, log %v", tb.rec.log)
		}

		if len(tb.serial.tx) != 1 || tb.serial.tx[0] != protocol.ReplyCaptureDone {
			t.Errorf("Expected single %q reply, got %q", protocol.ReplyCaptureDone, tb.serial.tx)
		}
		if d.Mode() != ModeIdle {
			t.Errorf("Expected idle after capture, got %s", d.Mode())
		}
	}
}

func TestCaptureCancelledByStop(t *testing.T) {
	tb := newTestBoard()
	d := tb.device(t)
	tb.lines["fill"].input = func() bool { return false }

	// unrelated bytes are swallowed by the wait loop
	tb.serial.queue('x', 'v', protocol.CmdStop, 'v')

	res, err := d.Capture(false)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if res.Outcome != CaptureCancelled {
		t.Errorf("Expected cancelled capture, got %s", res.Outcome)
	}
	if res.Polls != 2 {
		t.Errorf("Expected 2 polls before stop, got %d", res.Polls)
	}
	if len(tb.serial.tx) != 1 || tb.serial.tx[0] != protocol.ReplyCaptureDone {
		t.Errorf("Expected %q reply after cancel, got %q", protocol.ReplyCaptureDone, tb.serial.tx)
	}
	if len(tb.serial.rx) != 1 || tb.serial.rx[0] != 'v' {
		t.Errorf("Bytes after stop should stay queued, got %q", tb.serial.rx)
	}

	evt, ok := d.Events().Last()
	if !ok || evt.Type != EvtCaptureCancelled {
		t.Errorf("Expected cancel event, got %+v", evt)
	}
}

func TestCapturePollHook(t *testing.T) {
	tb := newTestBoard()
	d := tb.device(t)

	calls := 0
	d.PollHook = func() {
		calls++
		if calls == 5 {
			tb.lines["fill"].level = true
		}
		if d.Mode() != ModeCapturing {
			t.Errorf("Expected capturing mode inside poll loop, got %s", d.Mode())
		}
	}

	res, err := d.Capture(true)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if calls != 5 || res.Polls != 4 {
		t.Errorf("Expected 5 hook calls and 4 polls, got %d and %d", calls, res.Polls)
	}
}
