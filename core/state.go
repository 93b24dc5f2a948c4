package core

import "dsofw/protocol"

// EdgePolarity selects which trigger edge starts a capture
type EdgePolarity uint8

const (
	EdgeRising EdgePolarity = iota
	EdgeFalling
)

func (e EdgePolarity) String() string {
	if e == EdgeFalling {
		return "falling"
	}
	return "rising"
}

// TransportSpeed is the latched serial speed flag toggled by CmdBaud
type TransportSpeed uint8

const (
	SpeedNormal TransportSpeed = iota
	SpeedFast
)

// Baud returns the serial rate for the speed setting
func (s TransportSpeed) Baud() uint32 {
	if s == SpeedFast {
		return protocol.BaudFast
	}
	return protocol.BaudNormal
}

func (s TransportSpeed) String() string {
	if s == SpeedFast {
		return "fast"
	}
	return "normal"
}

// DeviceState is the configuration the host has applied to the front-end
type DeviceState struct {
	PLLMultiplier uint8
	DACValue      uint8
	Edge          EdgePolarity
	Speed         TransportSpeed
}

// DefaultDeviceState returns the power-up configuration
func DefaultDeviceState() DeviceState {
	return DeviceState{
		PLLMultiplier: protocol.DefaultMultiplier,
		DACValue:      protocol.DefaultDACValue,
		Edge:          EdgeRising,
		Speed:         SpeedNormal,
	}
}

// Mode reports what the dispatcher is doing
type Mode uint8

const (
	ModeIdle Mode = iota
	ModeCapturing
	ModeTransferring
)

func (m Mode) String() string {
	switch m {
	case ModeCapturing:
		return "capturing"
	case ModeTransferring:
		return "transferring"
	}
	return "idle"
}
