//go:build rp2040

package main

import (
	"machine"
)

// uartTransport implements core.ByteTransport over a hardware UART
type uartTransport struct {
	uart *machine.UART
	tx   machine.Pin
	rx   machine.Pin
}

func newUARTTransport(uart *machine.UART, tx, rx machine.Pin) *uartTransport {
	return &uartTransport{uart: uart, tx: tx, rx: rx}
}

// Init (re)configures the UART for 8N1 at baud. Reconfiguring drops
// anything still queued in the receive buffer.
func (u *uartTransport) Init(baud uint32) error {
	return u.uart.Configure(machine.UARTConfig{
		BaudRate: baud,
		TX:       u.tx,
		RX:       u.rx,
	})
}

func (u *uartTransport) SendByte(b byte) error {
	return u.uart.WriteByte(b)
}

// ReceiveByte spins until a byte is buffered
func (u *uartTransport) ReceiveByte() (byte, error) {
	for u.uart.Buffered() == 0 {
	}
	return u.uart.ReadByte()
}

func (u *uartTransport) TryReceiveByte() (byte, bool) {
	if u.uart.Buffered() == 0 {
		return 0, false
	}
	b, err := u.uart.ReadByte()
	if err != nil {
		return 0, false
	}
	return b, true
}
