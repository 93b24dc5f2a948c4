//go:build rp2040

package main

import (
	"machine"

	"tinygo.org/x/drivers"

	"dsofw/core"
)

// spiBusConfig names the SPI controller and pins used for the DAC
type spiBusConfig struct {
	spi  *machine.SPI // SPI controller (SPI0 or SPI1)
	sck  machine.Pin  // Clock pin
	sdo  machine.Pin  // Data to the DAC
	sdi  machine.Pin  // Unused by the DAC but claimed by the controller
	rate uint32
}

var dacSPIBus = spiBusConfig{
	spi:  machine.SPI0,
	sck:  machine.GPIO18,
	sdo:  machine.GPIO19,
	sdi:  machine.GPIO16,
	rate: 1000000,
}

// newDACBus configures the controller in mode 0, MSB first. Chip select
// is a plain GPIO driven by the core.
func newDACBus(cfg spiBusConfig) drivers.SPI {
	err := cfg.spi.Configure(machine.SPIConfig{
		Frequency: cfg.rate,
		SCK:       cfg.sck,
		SDO:       cfg.sdo,
		SDI:       cfg.sdi,
		LSBFirst:  false,
		Mode:      0,
	})
	if err != nil {
		core.DebugPrintln("dso: spi configure: " + err.Error())
	}
	return cfg.spi
}
