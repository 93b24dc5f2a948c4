package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"

	"dsofw/core"
	"dsofw/host/config"
	"dsofw/host/dso"
	"dsofw/host/serial"
	"dsofw/sim"
)

var (
	device     = flag.String("device", "", "Serial device path (overrides config)")
	baud       = flag.Int("baud", 0, "Power-up baud rate (overrides config)")
	configPath = flag.String("config", "", "JSON configuration file")
	useSim     = flag.Bool("sim", false, "Talk to a simulated scope instead of a serial device")
	evalOnly   = flag.Bool("e", false, "Run the command given as arguments and exit")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var (
		open     dso.Opener
		registry *core.CommandRegistry
	)
	if *useSim {
		scope, dev, err := startSim(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to start simulator: %v\n", err)
			os.Exit(1)
		}
		defer scope.Close()
		registry = dev.Registry()
		open = func(int) (serial.Port, error) { return scope.HostPort(), nil }
	} else {
		open = func(rate int) (serial.Port, error) {
			return serial.Open(&serial.Config{
				Device:      cfg.Device,
				Baud:        rate,
				ReadTimeout: cfg.ReadTimeoutMs,
			})
		}
	}

	client, err := dso.Dial(open, cfg.Baud, cfg.FastBaud)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()
	glog.Infof("connected to %s at %d baud", target(cfg), cfg.Baud)

	sh := newShell(client, cfg, registry)
	if err := sh.run(!*evalOnly, flag.Args()...); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadFile(*configPath); err != nil {
			return nil, err
		}
	}
	if *device != "" {
		cfg.Device = *device
	}
	if *baud != 0 {
		cfg.Baud = *baud
	}
	return cfg, nil
}

// startSim runs the firmware core against a simulated front end
func startSim(cfg *config.Config) (*sim.Scope, *core.Device, error) {
	simCfg := sim.DefaultConfig()
	simCfg.ReadTimeout = cfg.ReadTimeout()
	scope := sim.New(simCfg)

	dev, err := core.NewDevice(scope.Board())
	if err != nil {
		return nil, nil, err
	}
	if err := dev.Init(); err != nil {
		return nil, nil, err
	}
	go func() {
		if err := dev.Run(); err != nil && !errors.Is(err, core.ErrTransportClosed) {
			glog.Errorf("simulated device stopped: %v", err)
		}
	}()
	return scope, dev, nil
}

func target(cfg *config.Config) string {
	if *useSim {
		return "simulator"
	}
	return cfg.Device
}
