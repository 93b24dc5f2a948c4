package serial

import (
	"fmt"
	"io"

	"github.com/tarm/serial"
)

// NativePort wraps the tarm/serial implementation
type NativePort struct {
	port *serial.Port
	cfg  *Config
}

// Open opens a serial port. Standard rates go through tarm/serial; other
// rates need a platform custom-divisor path.
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Baud <= 0 {
		return nil, fmt.Errorf("invalid baud rate %d", cfg.Baud)
	}
	if !IsStandardBaud(cfg.Baud) {
		return openCustom(cfg)
	}

	serialConfig := &serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeoutDuration(),
	}

	port, err := serial.OpenPort(serialConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}

	return &NativePort{
		port: port,
		cfg:  cfg,
	}, nil
}

// Read reads data from the serial port. An empty read after the timeout
// is reported as ErrTimeout.
func (p *NativePort) Read(b []byte) (int, error) {
	if p.port == nil {
		return 0, ErrClosed
	}
	n, err := p.port.Read(b)
	if n == 0 && err == io.EOF && p.cfg.ReadTimeout > 0 {
		return 0, ErrTimeout
	}
	return n, err
}

// Write writes data to the serial port
func (p *NativePort) Write(b []byte) (int, error) {
	if p.port == nil {
		return 0, ErrClosed
	}
	return p.port.Write(b)
}

// Close closes the serial port
func (p *NativePort) Close() error {
	if p.port != nil {
		err := p.port.Close()
		p.port = nil
		return err
	}
	return nil
}

// Flush discards buffered data in both directions
func (p *NativePort) Flush() error {
	if p.port == nil {
		return ErrClosed
	}
	return p.port.Flush()
}
