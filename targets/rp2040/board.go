//go:build rp2040

package main

import (
	"machine"

	"dsofw/core"
)

// BoardConfig is the pin map between the RP2040 and the front end
type BoardConfig struct {
	// Data bus, Data[i] carries sample bit i
	Data [8]machine.Pin

	RAMRead      machine.Pin
	Enable       machine.Pin
	Force        machine.Pin
	EdgeSelect   machine.Pin
	SampleClock  machine.Pin
	FillComplete machine.Pin
	PLLS0        machine.Pin
	PLLS1        machine.Pin

	// Trigger level DAC on SPI0
	DACSelect machine.Pin
	SPI       spiBusConfig

	// Host link on UART0
	UART   *machine.UART
	UARTTX machine.Pin
	UARTRX machine.Pin

	// PIO driven sampling reference
	RefClock machine.Pin
}

// DefaultBoardConfig returns the reference wiring
func DefaultBoardConfig() BoardConfig {
	return BoardConfig{
		Data: [8]machine.Pin{
			machine.GPIO2, machine.GPIO3, machine.GPIO4, machine.GPIO5,
			machine.GPIO6, machine.GPIO7, machine.GPIO8, machine.GPIO9,
		},
		RAMRead:      machine.GPIO10,
		Enable:       machine.GPIO11,
		Force:        machine.GPIO12,
		EdgeSelect:   machine.GPIO13,
		SampleClock:  machine.GPIO14,
		FillComplete: machine.GPIO15,
		PLLS0:        machine.GPIO20,
		PLLS1:        machine.GPIO21,
		DACSelect:    machine.GPIO17,
		SPI:          dacSPIBus,
		UART:         machine.UART0,
		UARTTX:       machine.GPIO0,
		UARTRX:       machine.GPIO1,
		RefClock:     machine.GPIO22,
	}
}

// newBoard wraps the configured peripherals as a core.Board
func newBoard(cfg BoardConfig) *core.Board {
	bus := &core.ParallelBus{}
	for i, p := range cfg.Data {
		bus.Bits[i] = newPinLine(p)
	}

	return &core.Board{
		RAMRead:      newPinLine(cfg.RAMRead),
		Enable:       newPinLine(cfg.Enable),
		Force:        newPinLine(cfg.Force),
		EdgeSelect:   newPinLine(cfg.EdgeSelect),
		SampleClock:  newPinLine(cfg.SampleClock),
		FillComplete: newPinLine(cfg.FillComplete),
		PLLS0:        newPinLine(cfg.PLLS0),
		PLLS1:        newPinLine(cfg.PLLS1),
		DACSelect:    newPinLine(cfg.DACSelect),
		Bus:          bus,
		DAC:          newDACBus(cfg.SPI),
		Serial:       newUARTTransport(cfg.UART, cfg.UARTTX, cfg.UARTRX),
		Clock:        newRefClock(cfg.RefClock, 0, 0),
		Delay:        delayMicros,
	}
}
