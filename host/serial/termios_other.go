//go:build !linux

package serial

import "fmt"

func openCustom(cfg *Config) (Port, error) {
	return nil, fmt.Errorf("serial: baud rate %d needs a custom divisor, which is only supported on Linux", cfg.Baud)
}
