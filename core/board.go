package core

import (
	"tinygo.org/x/drivers"
)

// Board wires the controller to the front-end hardware
type Board struct {
	RAMRead      Line // capture-buffer read enable: high = read, low = capture
	Enable       Line // rising edge arms a capture
	Force        Line // rising edge forces the trigger
	EdgeSelect   Line // low = rising-edge trigger, high = falling-edge
	SampleClock  Line // rising edge latches the next sample onto the bus
	FillComplete Line // input, high once the capture RAM is full
	PLLS0        Line // PLL multiplier select
	PLLS1        Line
	DACSelect    Line // DAC chip select, active low

	Bus    DataBus
	DAC    drivers.SPI // synchronous byte exchange with the DAC
	Serial ByteTransport
	Clock  ReferenceClock // optional

	// Delay waits for us microseconds. BusyWait is used when nil.
	Delay func(us uint32)
}

// Validate checks that every required collaborator is present
func (b *Board) Validate() error {
	lines := []struct {
		name string
		line Line
	}{
		{"ram read", b.RAMRead},
		{"enable", b.Enable},
		{"force", b.Force},
		{"edge select", b.EdgeSelect},
		{"sample clock", b.SampleClock},
		{"fill complete", b.FillComplete},
		{"pll s0", b.PLLS0},
		{"pll s1", b.PLLS1},
		{"dac select", b.DACSelect},
	}
	for _, l := range lines {
		if l.line == nil {
			return errMissingLine(l.name)
		}
	}
	if b.Bus == nil {
		return errMissingLine("data bus")
	}
	if b.DAC == nil {
		return errMissingLine("dac spi")
	}
	if b.Serial == nil {
		return errMissingLine("serial transport")
	}
	return nil
}

func (b *Board) delay(us uint32) {
	if b.Delay != nil {
		b.Delay(us)
		return
	}
	BusyWait(us)
}
