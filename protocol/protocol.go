// Package protocol defines the single-byte DSO wire protocol spoken between
// the host and the capture controller, plus the fixed hardware constants the
// firmware is built around.
package protocol

// VersionString is the literal reply to CmdVersion
const VersionString = "DSO Version 2.0\n"

// Command bytes (host -> MCU)
const (
	CmdVersion    = 'v' // reply: VersionString
	CmdMultiplier = 'r' // param: PLL multiplier (2, 4 or 8)
	CmdDAC        = 't' // param: DAC value 0-255
	CmdCapture    = 'C' // capture using the external trigger
	CmdForce      = 'f' // capture, forcing the trigger
	CmdSend       = 's' // stream captured samples
	CmdEdge       = 'i' // param: EdgeRising or EdgeFalling
	CmdBaud       = 'B' // toggle between BaudNormal and BaudFast
	CmdStop       = 'n' // only polled during capture and transfer
)

// Edge sub-codes carried by CmdEdge
const (
	EdgeRising  = 'r'
	EdgeFalling = 'f'
)

// ReplyCaptureDone is sent once a capture finishes or is cancelled
const ReplyCaptureDone = 'C'

// MaxSamples bounds a single transfer session
const MaxSamples = 0xFFFF

// Default device settings applied at power-up
const (
	DefaultMultiplier = 2
	DefaultDACValue   = 127
)

// IsValidMultiplier reports whether m selects a PLL multiplier the
// front-end supports.
func IsValidMultiplier(m uint8) bool {
	return m == 2 || m == 4 || m == 8
}

// CommandName returns a short name for a command byte, or "" when the byte
// is not part of the alphabet.
func CommandName(cmd byte) string {
	switch cmd {
	case CmdVersion:
		return "version"
	case CmdMultiplier:
		return "set_multiplier"
	case CmdDAC:
		return "set_dac"
	case CmdCapture:
		return "capture"
	case CmdForce:
		return "force_capture"
	case CmdSend:
		return "send"
	case CmdEdge:
		return "set_edge"
	case CmdBaud:
		return "toggle_baud"
	case CmdStop:
		return "stop"
	}
	return ""
}
