// Package config loads the host tool configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"dsofw/protocol"
)

// Config is the host-side view of a DSO connection
type Config struct {
	// Device is the serial device path
	Device string `json:"device"`
	// Baud is the power-up link rate
	Baud int `json:"baud"`
	// FastBaud is the rate after a speed toggle
	FastBaud int `json:"fast_baud"`
	// ReadTimeoutMs bounds each serial read
	ReadTimeoutMs int `json:"read_timeout_ms"`
	// Samples is the default transfer length for the read command
	Samples int `json:"samples"`
	// CaptureTimeoutMs is how long to wait for a capture before
	// cancelling it; 0 waits forever
	CaptureTimeoutMs int `json:"capture_timeout_ms"`
}

// LoadConfig parses a JSON configuration and fills in defaults
func LoadConfig(jsonData []byte) (*Config, error) {
	var config Config

	err := json.Unmarshal(jsonData, &config)
	if err != nil {
		return nil, err
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadFile reads and parses a configuration file
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg, err := LoadConfig(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// applyDefaults fills in missing configuration values
func applyDefaults(config *Config) {
	if config.Device == "" {
		config.Device = "/dev/ttyUSB0"
	}
	if config.Baud == 0 {
		config.Baud = protocol.BaudNormal
	}
	if config.FastBaud == 0 {
		config.FastBaud = protocol.BaudFast
	}
	if config.ReadTimeoutMs == 0 {
		config.ReadTimeoutMs = 500
	}
	if config.Samples == 0 {
		config.Samples = protocol.MaxSamples
	}
}

// Validate rejects values the device cannot honor
func (c *Config) Validate() error {
	if c.Baud < 0 || c.FastBaud < 0 {
		return fmt.Errorf("baud rates must be positive")
	}
	if c.Samples < 0 || c.Samples > protocol.MaxSamples {
		return fmt.Errorf("samples must be between 1 and %d", protocol.MaxSamples)
	}
	if c.ReadTimeoutMs < 0 || c.CaptureTimeoutMs < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	return nil
}

// ReadTimeout returns ReadTimeoutMs as a time.Duration
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutMs) * time.Millisecond
}

// CaptureTimeout returns CaptureTimeoutMs as a time.Duration
func (c *Config) CaptureTimeout() time.Duration {
	return time.Duration(c.CaptureTimeoutMs) * time.Millisecond
}

// DefaultConfig returns the configuration used without a config file
func DefaultConfig() *Config {
	config := &Config{}
	applyDefaults(config)
	return config
}
