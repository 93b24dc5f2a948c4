package core

// ByteTransport is the serial link to the host (UART or equivalent)
type ByteTransport interface {
	// Init (re)configures the link at baud. Bytes queued but not yet read
	// may be lost.
	Init(baud uint32) error

	// SendByte queues b for transmission, waiting for room if needed
	SendByte(b byte) error

	// ReceiveByte waits until a byte arrives. Hardware transports never
	// return an error; simulated ones return ErrTransportClosed on shutdown.
	ReceiveByte() (byte, error)

	// TryReceiveByte returns a received byte without waiting
	TryReceiveByte() (byte, bool)
}

// sendString writes s byte by byte
func sendString(t ByteTransport, s string) error {
	for i := 0; i < len(s); i++ {
		if err := t.SendByte(s[i]); err != nil {
			return err
		}
	}
	return nil
}
