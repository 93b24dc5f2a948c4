package sim

import (
	"errors"
	"io"
	"sync"
	"time"

	"dsofw/core"
	"dsofw/protocol"
)

// rxQueueSize is the host to device buffer depth
const rxQueueSize = 4096

// txQueueSize holds a full transfer plus the capture reply so the device
// never stalls on a host that reads late
const txQueueSize = protocol.MaxSamples + 64

var (
	errRxOverflow = errors.New("sim: uart receive queue full")
	errPortClosed = errors.New("sim: port closed")
)

// timeoutError is returned by host reads that time out
type timeoutError struct{}

func (timeoutError) Error() string   { return "sim: read timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

// ErrTimeout is returned by UART.Read when the read timeout expires
var ErrTimeout error = timeoutError{}

// UART models the serial link. The device side implements
// core.ByteTransport; the host side is an io.ReadWriteCloser.
type UART struct {
	mu      sync.Mutex
	rx      *protocol.FifoBuffer
	rxReady chan struct{}
	tx      chan byte
	done    chan struct{}
	closed  bool
	bauds   []uint32
	sent    int
	timeout time.Duration

	// OnTransmit, when set, runs after each byte the device sends with
	// the running count. It lets tests react at exact sample boundaries.
	OnTransmit func(count int)
}

// NewUART creates a UART with the given host read timeout (0 waits forever)
func NewUART(readTimeout time.Duration) *UART {
	return &UART{
		rx:      protocol.NewFifoBuffer(rxQueueSize),
		rxReady: make(chan struct{}, 1),
		tx:      make(chan byte, txQueueSize),
		done:    make(chan struct{}),
		timeout: readTimeout,
	}
}

// Init implements core.ByteTransport
func (u *UART) Init(baud uint32) error {
	u.mu.Lock()
	u.bauds = append(u.bauds, baud)
	u.mu.Unlock()
	return nil
}

// SendByte implements core.ByteTransport
func (u *UART) SendByte(b byte) error {
	select {
	case u.tx <- b:
	case <-u.done:
		return core.ErrTransportClosed
	}

	u.mu.Lock()
	u.sent++
	count := u.sent
	hook := u.OnTransmit
	u.mu.Unlock()

	if hook != nil {
		hook(count)
	}
	return nil
}

// ReceiveByte implements core.ByteTransport
func (u *UART) ReceiveByte() (byte, error) {
	for {
		u.mu.Lock()
		if b, ok := u.rx.ReadByte(); ok {
			u.mu.Unlock()
			return b, nil
		}
		if u.closed {
			u.mu.Unlock()
			return 0, core.ErrTransportClosed
		}
		u.mu.Unlock()
		<-u.rxReady
	}
}

// TryReceiveByte implements core.ByteTransport
func (u *UART) TryReceiveByte() (byte, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.rx.ReadByte()
}

// Write queues bytes from the host to the device
func (u *UART) Write(p []byte) (int, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return 0, io.ErrClosedPipe
	}
	n := u.rx.Write(p)
	select {
	case u.rxReady <- struct{}{}:
	default:
	}
	if n < len(p) {
		return n, errRxOverflow
	}
	return n, nil
}

// Read returns bytes sent by the device, waiting for at least one
func (u *UART) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	u.mu.Lock()
	timeout := u.timeout
	u.mu.Unlock()

	var expire <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expire = timer.C
	}

	select {
	case b := <-u.tx:
		p[0] = b
	case <-expire:
		return 0, ErrTimeout
	case <-u.done:
		return 0, io.EOF
	}

	n := 1
	for n < len(p) {
		select {
		case b := <-u.tx:
			p[n] = b
			n++
		default:
			return n, nil
		}
	}
	return n, nil
}

// Flush discards bytes the device sent that the host has not read
func (u *UART) Flush() error {
	for {
		select {
		case <-u.tx:
		default:
			return nil
		}
	}
}

// Close shuts both ends down. A device blocked in ReceiveByte returns
// core.ErrTransportClosed.
func (u *UART) Close() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return nil
	}
	u.closed = true
	close(u.done)
	close(u.rxReady)
	return nil
}

// SetReadTimeout changes the host read timeout
func (u *UART) SetReadTimeout(d time.Duration) {
	u.mu.Lock()
	u.timeout = d
	u.mu.Unlock()
}

// Baud returns the rate of the last Init, or 0 before the first
func (u *UART) Baud() uint32 {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.bauds) == 0 {
		return 0
	}
	return u.bauds[len(u.bauds)-1]
}

// Bauds returns every rate the device initialized the link at
func (u *UART) Bauds() []uint32 {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]uint32, len(u.bauds))
	copy(out, u.bauds)
	return out
}

// Sent returns how many bytes the device has transmitted
func (u *UART) Sent() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.sent
}
