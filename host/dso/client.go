// Package dso is a host client for the DSO serial protocol.
package dso

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/golang/glog"

	"dsofw/host/serial"
	"dsofw/protocol"
)

var (
	// ErrUnexpectedReply is returned when the device answers a capture
	// with something other than the completion byte
	ErrUnexpectedReply = errors.New("dso: unexpected reply")
	// ErrShortVersion is returned when the version string is cut off
	ErrShortVersion = errors.New("dso: short version reply")
	// ErrBadParameter is returned for values the device would ignore
	ErrBadParameter = errors.New("dso: bad parameter")
)

// Opener opens the serial link at baud
type Opener func(baud int) (serial.Port, error)

// Client talks to one device. It is not safe for concurrent use.
type Client struct {
	open       Opener
	port       serial.Port
	baud       int
	normalBaud int
	fastBaud   int
}

// Dial opens the link at normalBaud. fastBaud is the rate ToggleBaud
// switches to.
func Dial(open Opener, normalBaud, fastBaud int) (*Client, error) {
	port, err := open(normalBaud)
	if err != nil {
		return nil, err
	}
	return &Client{
		open:       open,
		port:       port,
		baud:       normalBaud,
		normalBaud: normalBaud,
		fastBaud:   fastBaud,
	}, nil
}

// Baud returns the rate the link is currently open at
func (c *Client) Baud() int {
	return c.baud
}

// Close closes the link
func (c *Client) Close() error {
	if c.port == nil {
		return nil
	}
	err := c.port.Close()
	c.port = nil
	return err
}

func (c *Client) send(b ...byte) error {
	if c.port == nil {
		return serial.ErrClosed
	}
	if glog.V(2) {
		glog.Infof("dso: -> % x", b)
	}
	_, err := c.port.Write(b)
	if err != nil {
		return fmt.Errorf("dso: write: %w", err)
	}
	return nil
}

// readFull fills buf. A read timeout is returned unless patient is set,
// in which case reading continues until ctx is done.
func (c *Client) readFull(ctx context.Context, buf []byte, patient bool) (int, error) {
	if c.port == nil {
		return 0, serial.ErrClosed
	}
	n := 0
	for n < len(buf) {
		m, err := c.port.Read(buf[n:])
		n += m
		if err == nil {
			continue
		}
		if !serial.IsTimeout(err) {
			return n, fmt.Errorf("dso: read: %w", err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return n, ctxErr
		}
		if !patient {
			return n, err
		}
	}
	return n, nil
}

// drain discards device output until the link goes quiet
func (c *Client) drain() int {
	buf := make([]byte, 256)
	total := 0
	for {
		n, err := c.port.Read(buf)
		total += n
		if err != nil {
			return total
		}
	}
}

// Version asks the device to identify itself and returns the version
// line without its newline
func (c *Client) Version(ctx context.Context) (string, error) {
	if err := c.send(protocol.CmdVersion); err != nil {
		return "", err
	}
	buf := make([]byte, len(protocol.VersionString))
	n, err := c.readFull(ctx, buf, false)
	if err != nil {
		if serial.IsTimeout(err) {
			return "", fmt.Errorf("%w: got %q", ErrShortVersion, buf[:n])
		}
		return "", err
	}
	return string(bytes.TrimRight(buf, "\n")), nil
}

// SetMultiplier selects the PLL multiplier. Only 2, 4 and 8 are accepted.
func (c *Client) SetMultiplier(multi uint8) error {
	if !protocol.IsValidMultiplier(multi) {
		return fmt.Errorf("%w: multiplier %d", ErrBadParameter, multi)
	}
	return c.send(protocol.CmdMultiplier, multi)
}

// SetDAC sets the trigger level DAC
func (c *Client) SetDAC(value uint8) error {
	return c.send(protocol.CmdDAC, value)
}

// SetEdge selects the trigger edge: protocol.EdgeRising or
// protocol.EdgeFalling
func (c *Client) SetEdge(edge byte) error {
	if edge != protocol.EdgeRising && edge != protocol.EdgeFalling {
		return fmt.Errorf("%w: edge %q", ErrBadParameter, edge)
	}
	return c.send(protocol.CmdEdge, edge)
}

// Capture starts an acquisition and waits for the device to report it
// finished. When ctx ends first the capture is cancelled on the device
// and ctx's error is returned once the device acknowledges.
func (c *Client) Capture(ctx context.Context, force bool) error {
	cmd := byte(protocol.CmdCapture)
	if force {
		cmd = protocol.CmdForce
	}
	if err := c.send(cmd); err != nil {
		return err
	}
	glog.V(1).Infof("dso: capture started (force=%v)", force)

	reply := make([]byte, 1)
	_, err := c.readFull(ctx, reply, true)
	if err != nil && ctx.Err() != nil {
		glog.Infof("dso: cancelling capture: %v", ctx.Err())
		if sendErr := c.send(protocol.CmdStop); sendErr != nil {
			return sendErr
		}
		// the acknowledgement is still owed, so wait without ctx
		if _, ackErr := c.readFull(context.Background(), reply, false); ackErr != nil {
			return fmt.Errorf("dso: no reply to capture cancel: %w", ackErr)
		}
		if reply[0] != protocol.ReplyCaptureDone {
			return fmt.Errorf("%w: 0x%02x", ErrUnexpectedReply, reply[0])
		}
		return ctx.Err()
	}
	if err != nil {
		return err
	}
	if reply[0] != protocol.ReplyCaptureDone {
		return fmt.Errorf("%w: 0x%02x", ErrUnexpectedReply, reply[0])
	}
	glog.V(1).Infof("dso: capture complete")
	return nil
}

// ReadSamples transfers the first n samples of the last capture. For
// n below protocol.MaxSamples the transfer is stopped after n samples
// and the overrun is discarded.
func (c *Client) ReadSamples(ctx context.Context, n int) ([]byte, error) {
	if n <= 0 || n > protocol.MaxSamples {
		return nil, fmt.Errorf("%w: %d samples", ErrBadParameter, n)
	}
	if err := c.send(protocol.CmdSend); err != nil {
		return nil, err
	}

	buf := make([]byte, n)
	got, err := c.readFull(ctx, buf, false)
	if n < protocol.MaxSamples {
		if stopErr := c.send(protocol.CmdStop); stopErr != nil && err == nil {
			err = stopErr
		}
		if extra := c.drain(); extra > 0 {
			glog.V(1).Infof("dso: discarded %d samples after stop", extra)
		}
	}
	if err != nil {
		return buf[:got], fmt.Errorf("dso: read samples: got %d of %d: %w", got, n, err)
	}
	return buf, nil
}

// ReadAll transfers the whole capture buffer
func (c *Client) ReadAll(ctx context.Context) ([]byte, error) {
	return c.ReadSamples(ctx, protocol.MaxSamples)
}

// ToggleBaud switches the device to the other link rate and reopens the
// port to match. It returns the new rate.
func (c *Client) ToggleBaud() (int, error) {
	if err := c.send(protocol.CmdBaud); err != nil {
		return c.baud, err
	}
	next := c.fastBaud
	if c.baud == c.fastBaud {
		next = c.normalBaud
	}

	if err := c.Close(); err != nil {
		glog.Warningf("dso: closing port at %d baud: %v", c.baud, err)
	}
	port, err := c.open(next)
	if err != nil {
		return c.baud, fmt.Errorf("dso: reopen at %d baud: %w", next, err)
	}
	c.port = port
	c.baud = next
	glog.Infof("dso: link now at %d baud", next)
	return next, nil
}

// Stop sends the stop byte on its own. It aborts a pending capture or
// transfer and is ignored otherwise.
func (c *Client) Stop() error {
	return c.send(protocol.CmdStop)
}
