package sim

import (
	"sync"

	"dsofw/protocol"
)

// DAC models the SPI trigger-level DAC. Bytes clocked while its chip
// select is low are collected into a frame; releasing chip select latches
// a complete two byte frame.
type DAC struct {
	mu     sync.Mutex
	active bool
	frame  []byte
	words  []uint16
	value  uint8
	strays int
	bad    int
}

func newDAC(cs *Line) *DAC {
	d := &DAC{}
	cs.onEdge = d.chipSelect
	return d
}

func (d *DAC) chipSelect(level bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !level {
		d.active = true
		d.frame = d.frame[:0]
		return
	}
	if !d.active {
		return
	}
	d.active = false
	if len(d.frame) != 2 {
		d.bad++
		return
	}
	w := uint16(d.frame[0])<<8 | uint16(d.frame[1])
	d.words = append(d.words, w)
	d.value = protocol.DACValue(w)
}

// Transfer implements drivers.SPI. The DAC has no output, so zero is
// clocked back.
func (d *DAC) Transfer(b byte) (byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.active {
		d.strays++
		return 0, nil
	}
	d.frame = append(d.frame, b)
	return 0, nil
}

// Tx implements drivers.SPI
func (d *DAC) Tx(w, r []byte) error {
	for i, b := range w {
		got, err := d.Transfer(b)
		if err != nil {
			return err
		}
		if i < len(r) {
			r[i] = got
		}
	}
	return nil
}

// Value returns the last latched 8-bit value
func (d *DAC) Value() uint8 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.value
}

// Words returns every latched command word
func (d *DAC) Words() []uint16 {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]uint16, len(d.words))
	copy(out, d.words)
	return out
}

// Faults returns bytes clocked without chip select and frames of the
// wrong length
func (d *DAC) Faults() (strays, malformed int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.strays, d.bad
}
