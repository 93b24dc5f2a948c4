package sim

import (
	"math"
	"sync"
)

// SignalFunc produces sample i of a capture taken at PLL multiplier mult
type SignalFunc func(i int, mult uint8) byte

// SineSignal is the default input: a full-scale sine whose period in
// samples grows with the sampling multiplier
func SineSignal(i int, mult uint8) byte {
	if mult == 0 {
		mult = 2
	}
	period := 32 * float64(mult)
	return byte(127.5 + 127*math.Sin(2*math.Pi*float64(i)/period))
}

// RampSignal returns i truncated to a byte
func RampSignal(i int, _ uint8) byte {
	return byte(i)
}

// captureLogic models the capture controller and its sample RAM. It
// reacts to edges on the enable, force, RAM-read and sample-clock lines
// and drives the fill-complete line and the data bus.
type captureLogic struct {
	mu sync.Mutex

	ram      []byte
	signal   SignalFunc
	autoPoll int
	mult     func() uint8

	armed    bool
	full     bool
	readMode bool
	ptr      int
	latched  byte
	polls    int
	captures int
}

func newCaptureLogic(size int, signal SignalFunc, autoPoll int, mult func() uint8) *captureLogic {
	return &captureLogic{
		ram:      make([]byte, size),
		signal:   signal,
		autoPoll: autoPoll,
		mult:     mult,
	}
}

// arm runs on a rising edge of the enable line
func (c *captureLogic) arm() {
	c.mu.Lock()
	c.armed = true
	c.full = false
	c.polls = 0
	c.mu.Unlock()
}

// trigger fills the RAM if a capture is armed
func (c *captureLogic) trigger() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.armed {
		c.fillLocked()
	}
}

func (c *captureLogic) fillLocked() {
	mult := c.mult()
	for i := range c.ram {
		c.ram[i] = c.signal(i, mult)
	}
	c.armed = false
	c.full = true
	c.captures++
}

// fillComplete is the level of the fill-complete line. Each read counts
// as one poll for the automatic trigger.
func (c *captureLogic) fillComplete() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.armed && c.autoPoll > 0 {
		c.polls++
		if c.polls >= c.autoPoll {
			c.fillLocked()
		}
	}
	return c.full
}

// setReadMode follows the RAM-read line. Entering read mode rewinds the
// read pointer.
func (c *captureLogic) setReadMode(on bool) {
	c.mu.Lock()
	c.readMode = on
	if on {
		c.ptr = 0
	}
	c.mu.Unlock()
}

// clock runs on a rising edge of the sample clock
func (c *captureLogic) clock() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.readMode || len(c.ram) == 0 {
		return
	}
	c.latched = c.ram[c.ptr%len(c.ram)]
	c.ptr++
}

// ReadSample implements core.DataBus
func (c *captureLogic) ReadSample() byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latched
}

func (c *captureLogic) snapshot() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]byte, len(c.ram))
	copy(out, c.ram)
	return out
}

func (c *captureLogic) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.captures
}
