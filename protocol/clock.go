package protocol

// Front-end clocking. The original board runs the MCU from a 10MHz
// oscillator and derives the 5MHz sampling reference from it.
const (
	OscillatorHz   = 10000000
	ReferenceClkHz = 5000000
)

// Serial speeds selectable with CmdBaud
const (
	BaudNormal = 38400
	BaudFast   = 153600
)

// UBRR returns the UART divisor register value for baud at OscillatorHz in
// normal (16x oversampling) mode.
func UBRR(baud uint32) uint16 {
	if baud == 0 {
		return 0
	}
	return uint16(OscillatorHz/16/baud - 1)
}

// ActualBaud returns the baud rate really produced by divisor ubrr.
func ActualBaud(ubrr uint16) uint32 {
	return OscillatorHz / (16 * (uint32(ubrr) + 1))
}

// ClockDivider returns the 16.8 fixed point divider that brings srcHz
// down to hz, as loaded into an RP2040 PIO CLKDIV register
func ClockDivider(srcHz, hz uint32) (whole uint16, frac uint8) {
	if hz == 0 {
		return 0, 0
	}
	div := uint64(srcHz) * 256 / uint64(hz)
	return uint16(div >> 8), uint8(div)
}
