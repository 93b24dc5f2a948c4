package core

import (
	"testing"

	"dsofw/protocol"
)

func TestSetMultiplierEncodings(t *testing.T) {
	testCases := []struct {
		multi uint8
		level bool
		dir   Direction
	}{
		{2, false, DirectionInput},
		{4, false, DirectionOutput},
		{8, true, DirectionOutput},
	}

	for _, tc := range testCases {
		tb := newTestBoard()
		d := tb.device(t)

		if err := d.SetMultiplier(tc.multi); err != nil {
			t.Fatalf("SetMultiplier(%d) failed: %v", tc.multi, err)
		}

		for _, name := range []string{"s0", "s1"} {
			l := tb.lines[name]
			if l.level != tc.level || l.dir != tc.dir {
				t.Errorf("multiplier %d: expected %s level=%v dir=%s, got level=%v dir=%s",
					tc.multi, name, tc.level, tc.dir, l.level, l.dir)
			}
		}

		// the latch is written before the direction changes
		s0Level := tb.index("s0=0")
		if tc.level {
			s0Level = tb.index("s0=1")
		}
		if s0Level < 0 || s0Level > tb.index("s0:"+tc.dir.String()) {
			t.Errorf("multiplier %d: expected level before direction, log %v", tc.multi, tb.rec.log)
		}

		if d.State().PLLMultiplier != tc.multi {
			t.Errorf("Expected state multiplier %d, got %d", tc.multi, d.State().PLLMultiplier)
		}
	}
}

func TestSetMultiplierRejectsOtherValues(t *testing.T) {
	for v := 0; v <= 0xFF; v++ {
		if protocol.IsValidMultiplier(uint8(v)) {
			continue
		}
		tb := newTestBoard()
		d := tb.device(t)

		if err := d.SetMultiplier(uint8(v)); err != nil {
			t.Errorf("SetMultiplier(%d) should not fail, got %v", v, err)
		}
		if len(tb.rec.log) != 0 {
			t.Errorf("SetMultiplier(%d) touched lines: %v", v, tb.rec.log)
		}
		if d.State().PLLMultiplier != protocol.DefaultMultiplier {
			t.Errorf("SetMultiplier(%d) changed state to %d", v, d.State().PLLMultiplier)
		}
	}
}

func TestSetDACValueFraming(t *testing.T) {
	for v := 0; v <= 0xFF; v++ {
		tb := newTestBoard()
		d := tb.device(t)

		if err := d.SetDACValue(uint8(v)); err != nil {
			t.Fatalf("SetDACValue(%d) failed: %v", v, err)
		}

		word := uint16(0x3000) | uint16(v)<<4
		hi, lo := byte(word>>8), byte(word&0xFF)
		if len(tb.spi.sent) != 2 || tb.spi.sent[0] != hi || tb.spi.sent[1] != lo {
			t.Fatalf("SetDACValue(%d): expected bytes %02X %02X, got %X", v, hi, lo, tb.spi.sent)
		}

		expected := []string{"cs=0", "spi:" + hexByte(hi), "spi:" + hexByte(lo), "cs=1"}
		if len(tb.rec.log) != len(expected) {
			t.Fatalf("SetDACValue(%d): expected log %v, got %v", v, expected, tb.rec.log)
		}
		for i := range expected {
			if tb.rec.log[i] != expected[i] {
				t.Errorf("SetDACValue(%d): step %d expected %s, got %s", v, i, expected[i], tb.rec.log[i])
			}
		}

		if d.State().DACValue != uint8(v) {
			t.Errorf("Expected state DAC value %d, got %d", v, d.State().DACValue)
		}
	}
}

func TestSetDACValueReleasesChipSelectOnError(t *testing.T) {
	tb := newTestBoard()
	d := tb.device(t)
	tb.spi.fail = true

	if err := d.SetDACValue(42); err == nil {
		t.Error("Expected SPI error to be returned")
	}
	if !tb.lines["cs"].level {
		t.Error("Chip select should be released after a failed exchange")
	}
	if d.State().DACValue != protocol.DefaultDACValue {
		t.Errorf("Failed write should keep DAC value %d, got %d", protocol.DefaultDACValue, d.State().DACValue)
	}
}

func TestSetEdge(t *testing.T) {
	tb := newTestBoard()
	d := tb.device(t)

	if err := d.SetEdge(protocol.EdgeFalling); err != nil {
		t.Fatalf("SetEdge failed: %v", err)
	}
	if !tb.lines["edge"].level || d.State().Edge != EdgeFalling {
		t.Error("Falling edge should drive edge select high")
	}

	if err := d.SetEdge(protocol.EdgeRising); err != nil {
		t.Fatalf("SetEdge failed: %v", err)
	}
	if tb.lines["edge"].level || d.State().Edge != EdgeRising {
		t.Error("Rising edge should drive edge select low")
	}

	tb.rec.reset()
	if err := d.SetEdge('x'); err != nil {
		t.Errorf("Unknown sub-code should be ignored, got %v", err)
	}
	if len(tb.rec.log) != 0 {
		t.Errorf("Unknown sub-code touched lines: %v", tb.rec.log)
	}
}

func TestToggleBaud(t *testing.T) {
	tb := newTestBoard()
	d := tb.device(t)

	if err := d.ToggleBaud(); err != nil {
		t.Fatalf("ToggleBaud failed: %v", err)
	}
	if d.State().Speed != SpeedFast {
		t.Errorf("Expected fast speed, got %s", d.State().Speed)
	}
	if err := d.ToggleBaud(); err != nil {
		t.Fatalf("ToggleBaud failed: %v", err)
	}
	if d.State().Speed != SpeedNormal {
		t.Errorf("Expected normal speed, got %s", d.State().Speed)
	}

	bauds := tb.serial.bauds
	if len(bauds) != 2 || bauds[0] != protocol.BaudFast || bauds[1] != protocol.BaudNormal {
		t.Errorf("Expected re-init at %d then %d, got %v", protocol.BaudFast, protocol.BaudNormal, bauds)
	}
}
