package core

import (
	"dsofw/protocol"
)

// registerCommands installs the host command alphabet
func (d *Device) registerCommands() {
	r := d.registry
	r.Register(protocol.CmdVersion, "version", "", d.handleVersion)
	r.Register(protocol.CmdMultiplier, "set_multiplier", "multiplier=%c", d.handleSetMultiplier)
	r.Register(protocol.CmdDAC, "set_dac", "value=%c", d.handleSetDAC)
	r.Register(protocol.CmdCapture, "capture", "", d.handleCapture)
	r.Register(protocol.CmdForce, "force_capture", "", d.handleForceCapture)
	r.Register(protocol.CmdSend, "send", "", d.handleSend)
	r.Register(protocol.CmdEdge, "set_edge", "edge=%c", d.handleSetEdge)
	r.Register(protocol.CmdBaud, "toggle_baud", "", d.handleToggleBaud)
}

// handleVersion replies with the fixed version string
func (d *Device) handleVersion(_ byte) error {
	return sendString(d.board.Serial, protocol.VersionString)
}

func (d *Device) handleSetMultiplier(param byte) error {
	return d.SetMultiplier(param)
}

func (d *Device) handleSetDAC(param byte) error {
	return d.SetDACValue(param)
}

func (d *Device) handleCapture(_ byte) error {
	_, err := d.Capture(false)
	return err
}

func (d *Device) handleForceCapture(_ byte) error {
	_, err := d.Capture(true)
	return err
}

func (d *Device) handleSend(_ byte) error {
	_, err := d.SendSamples()
	return err
}

func (d *Device) handleSetEdge(param byte) error {
	return d.SetEdge(param)
}

func (d *Device) handleToggleBaud(_ byte) error {
	return d.ToggleBaud()
}
