package core

import (
	"dsofw/protocol"
)

// Device is the capture controller: it owns the board, the host-visible
// configuration and the command alphabet.
type Device struct {
	board    *Board
	state    DeviceState
	mode     Mode
	registry *CommandRegistry
	events   EventRing

	// PollHook, when set, runs once per iteration of the capture wait
	// loop. The simulator uses it to advance its capture model.
	PollHook func()
}

// NewDevice binds a controller to board and registers the command set.
// The hardware is not touched until Init.
func NewDevice(board *Board) (*Device, error) {
	if board == nil {
		return nil, errMissingLine("board")
	}
	if err := board.Validate(); err != nil {
		return nil, err
	}
	d := &Device{
		board:    board,
		state:    DefaultDeviceState(),
		registry: NewCommandRegistry(),
	}
	d.registerCommands()
	return d, nil
}

// Init configures every line to its idle state, starts the reference
// clock and applies the power-up defaults.
func (d *Device) Init() error {
	b := d.board

	if bus, ok := b.Bus.(*ParallelBus); ok {
		if err := bus.Configure(); err != nil {
			return err
		}
	}
	outputs := []struct {
		line Line
		on   bool
	}{
		{b.RAMRead, false},
		{b.Enable, false},
		{b.Force, false},
		{b.EdgeSelect, false},
		{b.SampleClock, false},
		{b.DACSelect, true},
	}
	for _, o := range outputs {
		if err := configureOutput(o.line, o.on); err != nil {
			return err
		}
	}
	if err := b.FillComplete.SetDirection(DirectionInput); err != nil {
		return err
	}

	if b.Clock != nil {
		if err := b.Clock.Configure(protocol.ReferenceClkHz); err != nil {
			return err
		}
	}

	d.state = DefaultDeviceState()
	if err := d.SetMultiplier(d.state.PLLMultiplier); err != nil {
		return err
	}
	if err := b.Serial.Init(d.state.Speed.Baud()); err != nil {
		return err
	}
	return d.SetDACValue(d.state.DACValue)
}

// State returns a copy of the current configuration
func (d *Device) State() DeviceState {
	return d.state
}

// Mode reports whether the device is idle, capturing or transferring
func (d *Device) Mode() Mode {
	return d.mode
}

// Registry exposes the command alphabet
func (d *Device) Registry() *CommandRegistry {
	return d.registry
}

// Events returns the post-mortem event ring
func (d *Device) Events() *EventRing {
	return &d.events
}

// Step waits for one command byte and executes it. Unknown bytes are
// dropped silently. Only a transport failure is returned; handler errors
// are reported on the debug writer and otherwise ignored.
func (d *Device) Step() error {
	code, err := d.board.Serial.ReceiveByte()
	if err != nil {
		return err
	}

	cmd, ok := d.registry.GetCommand(code)
	if !ok {
		d.events.Record(EvtIgnored, code, 0)
		return nil
	}

	var param byte
	if cmd.Params > 0 {
		param, err = d.board.Serial.ReceiveByte()
		if err != nil {
			return err
		}
	}
	d.events.Record(EvtCommand, code, uint32(param))

	if err := cmd.Handler(param); err != nil {
		DebugPrintln("dso: " + cmd.Name + " failed: " + err.Error())
	}
	return nil
}

// Run executes commands until the transport fails. On hardware it never
// returns.
func (d *Device) Run() error {
	for {
		if err := d.Step(); err != nil {
			return err
		}
	}
}
