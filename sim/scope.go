package sim

import (
	"sync"
	"time"

	"dsofw/core"
)

// DefaultRAMSize is the depth of the simulated capture RAM
const DefaultRAMSize = 1 << 16

// Config tunes a simulated scope
type Config struct {
	// RAMSize is the number of samples the capture RAM holds
	RAMSize int
	// TriggerAfterPolls fills the RAM once the firmware has polled the
	// fill-complete line this many times. Zero means only Trigger or a
	// forced capture fills it.
	TriggerAfterPolls int
	// Signal generates the captured waveform
	Signal SignalFunc
	// ReadTimeout bounds host reads; zero waits forever
	ReadTimeout time.Duration
}

// DefaultConfig returns a scope that triggers on its own after a few
// polls and captures a sine
func DefaultConfig() Config {
	return Config{
		RAMSize:           DefaultRAMSize,
		TriggerAfterPolls: 8,
		Signal:            SineSignal,
		ReadTimeout:       time.Second,
	}
}

// RefClock records the reference clock configuration
type RefClock struct {
	mu sync.Mutex
	hz uint32
}

// Configure implements core.ReferenceClock
func (r *RefClock) Configure(hz uint32) error {
	r.mu.Lock()
	r.hz = hz
	r.mu.Unlock()
	return nil
}

// Hz returns the configured frequency, 0 when never started
func (r *RefClock) Hz() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hz
}

// Scope is a complete simulated front-end
type Scope struct {
	RAMRead      *Line
	Enable       *Line
	Force        *Line
	EdgeSelect   *Line
	SampleClock  *Line
	FillComplete *Line
	PLLS0        *Line
	PLLS1        *Line
	DACSelect    *Line

	DAC      *DAC
	UART     *UART
	RefClock *RefClock

	capture *captureLogic
	delayed uint64
	mu      sync.Mutex
}

// New builds a scope from cfg. Zero fields take their DefaultConfig
// values, except TriggerAfterPolls and ReadTimeout where zero is
// meaningful.
func New(cfg Config) *Scope {
	if cfg.RAMSize <= 0 {
		cfg.RAMSize = DefaultRAMSize
	}
	if cfg.Signal == nil {
		cfg.Signal = SineSignal
	}

	s := &Scope{
		RAMRead:      NewLine("ram_read"),
		Enable:       NewLine("enable"),
		Force:        NewLine("force"),
		EdgeSelect:   NewLine("edge_select"),
		SampleClock:  NewLine("sample_clock"),
		FillComplete: NewLine("fill_complete"),
		PLLS0:        NewLine("pll_s0"),
		PLLS1:        NewLine("pll_s1"),
		DACSelect:    NewLine("dac_select"),
		UART:         NewUART(cfg.ReadTimeout),
		RefClock:     &RefClock{},
	}
	s.DAC = newDAC(s.DACSelect)
	s.capture = newCaptureLogic(cfg.RAMSize, cfg.Signal, cfg.TriggerAfterPolls, s.Multiplier)

	s.Enable.onEdge = func(level bool) {
		if level {
			s.capture.arm()
		}
	}
	s.Force.onEdge = func(level bool) {
		if level {
			s.capture.trigger()
		}
	}
	s.RAMRead.onEdge = s.capture.setReadMode
	s.SampleClock.onEdge = func(level bool) {
		if level {
			s.capture.clock()
		}
	}
	s.FillComplete.sense = s.capture.fillComplete

	return s
}

// Board returns the core.Board view of the scope
func (s *Scope) Board() *core.Board {
	return &core.Board{
		RAMRead:      s.RAMRead,
		Enable:       s.Enable,
		Force:        s.Force,
		EdgeSelect:   s.EdgeSelect,
		SampleClock:  s.SampleClock,
		FillComplete: s.FillComplete,
		PLLS0:        s.PLLS0,
		PLLS1:        s.PLLS1,
		DACSelect:    s.DACSelect,
		Bus:          s.capture,
		DAC:          s.DAC,
		Serial:       s.UART,
		Clock:        s.RefClock,
		Delay:        s.delay,
	}
}

func (s *Scope) delay(us uint32) {
	s.mu.Lock()
	s.delayed += uint64(us)
	s.mu.Unlock()
}

// Delayed returns the total microseconds the firmware asked to wait
func (s *Scope) Delayed() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delayed
}

// Trigger fills the capture RAM as if the analog trigger fired. It has
// no effect unless a capture is armed.
func (s *Scope) Trigger() {
	s.capture.trigger()
}

// Multiplier decodes the PLL select lines: both released is 2, both
// driven low is 4, both driven high is 8. Any other combination is 0.
func (s *Scope) Multiplier() uint8 {
	s0, s1 := s.PLLS0, s.PLLS1
	switch {
	case s0.Tristated() && s1.Tristated():
		return 2
	case s0.Tristated() || s1.Tristated():
		return 0
	case !s0.Level() && !s1.Level():
		return 4
	case s0.Level() && s1.Level():
		return 8
	}
	return 0
}

// Captures returns how many times the capture RAM was filled
func (s *Scope) Captures() int {
	return s.capture.count()
}

// Samples returns a copy of the capture RAM
func (s *Scope) Samples() []byte {
	return s.capture.snapshot()
}

// HostPort returns the host end of the serial link. Closing it leaves the
// link up so a client can reopen at another rate; Scope.Close tears the
// link down.
func (s *Scope) HostPort() *HostPort {
	return &HostPort{uart: s.UART}
}

// Close shuts the serial link down, which ends core.Device.Run
func (s *Scope) Close() error {
	return s.UART.Close()
}

// HostPort is a host view of the simulated serial link
type HostPort struct {
	uart   *UART
	closed bool
}

// Read implements io.Reader
func (p *HostPort) Read(b []byte) (int, error) {
	if p.closed {
		return 0, errPortClosed
	}
	return p.uart.Read(b)
}

// Write implements io.Writer
func (p *HostPort) Write(b []byte) (int, error) {
	if p.closed {
		return 0, errPortClosed
	}
	return p.uart.Write(b)
}

// Flush discards unread device output
func (p *HostPort) Flush() error {
	if p.closed {
		return errPortClosed
	}
	return p.uart.Flush()
}

// Close detaches this handle from the link
func (p *HostPort) Close() error {
	p.closed = true
	return nil
}
