// Package serial opens the host end of the DSO serial link.
package serial

import (
	"errors"
	"io"
	"time"
)

// Port represents a serial port interface
// This abstraction allows for different implementations:
// - Native serial at standard rates (using github.com/tarm/serial)
// - termios2 custom-rate serial for the fast link speed on Linux
// - The simulated scope link (for development and tests)
type Port interface {
	io.ReadWriteCloser

	// Flush discards unread input and unsent output
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	// Baud rate: 38400 after power-up, 153600 after a speed toggle
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultConfig returns the power-up link configuration for device
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        38400,
		ReadTimeout: 500,
	}
}

// ReadTimeoutDuration returns ReadTimeout as a time.Duration
func (c *Config) ReadTimeoutDuration() time.Duration {
	return time.Duration(c.ReadTimeout) * time.Millisecond
}

// ErrClosed is returned by operations on a closed port
var ErrClosed = errors.New("serial: port closed")

type timeoutError struct{}

func (timeoutError) Error() string   { return "serial: read timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

// ErrTimeout is returned when a read sees no data within ReadTimeout
var ErrTimeout error = timeoutError{}

// IsTimeout reports whether err is a read timeout from any Port
// implementation, including the simulator's
func IsTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

// standardBauds are the rates every platform driver accepts directly
var standardBauds = map[int]bool{
	1200: true, 2400: true, 4800: true, 9600: true, 19200: true,
	38400: true, 57600: true, 115200: true, 230400: true,
}

// IsStandardBaud reports whether baud can be set without a custom divisor
func IsStandardBaud(baud int) bool {
	return standardBauds[baud]
}
