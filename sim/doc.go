// Package sim models the DSO front-end in software: digital lines, the
// capture logic with its sample RAM, the SPI DAC and the UART. A Scope
// produces a core.Board so the firmware core runs unmodified against it,
// and exposes the host end of the serial link as an io.ReadWriteCloser.
package sim
