package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/abiosoft/ishell"

	"dsofw/core"
	"dsofw/host/config"
	"dsofw/host/dso"
	"dsofw/protocol"
)

const shellKey = "$dso"

// shell binds the client to an ishell instance
type shell struct {
	client   *dso.Client
	cfg      *config.Config
	registry *core.CommandRegistry
	ish      *ishell.Shell
}

func newShell(client *dso.Client, cfg *config.Config, registry *core.CommandRegistry) *shell {
	s := &shell{
		client:   client,
		cfg:      cfg,
		registry: registry,
		ish:      ishell.New(),
	}
	s.ish.Set(shellKey, s)
	s.setPrompt()
	for _, cmd := range commands {
		s.ish.AddCmd(cmd)
	}
	return s
}

func shellFrom(c *ishell.Context) *shell {
	return c.Get(shellKey).(*shell)
}

func (s *shell) setPrompt() {
	s.ish.SetPrompt(fmt.Sprintf("[%d] > ", s.client.Baud()))
}

func (s *shell) run(interactive bool, args ...string) error {
	if len(args) > 0 {
		return s.ish.Process(args...)
	}
	if !interactive {
		return fmt.Errorf("command expected")
	}
	s.ish.Run()
	return nil
}

// captureContext bounds a capture by the configured timeout
func (s *shell) captureContext() (context.Context, context.CancelFunc) {
	if d := s.cfg.CaptureTimeout(); d > 0 {
		return context.WithTimeout(context.Background(), d)
	}
	return context.WithCancel(context.Background())
}

func parseByte(arg string) (uint8, error) {
	v, err := strconv.ParseUint(arg, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q: want 0-255", arg)
	}
	return uint8(v), nil
}

func doCapture(c *ishell.Context, force bool) {
	s := shellFrom(c)
	ctx, cancel := s.captureContext()
	defer cancel()

	start := time.Now()
	if err := s.client.Capture(ctx, force); err != nil {
		c.Err(err)
		return
	}
	c.Printf("captured in %v\n", time.Since(start).Round(time.Millisecond))
}

var (
	versionCmd = ishell.Cmd{
		Name:    "version",
		Aliases: []string{"v"},
		Help:    "print the firmware version",
		Func: func(c *ishell.Context) {
			v, err := shellFrom(c).client.Version(context.Background())
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(v)
		},
	}

	rateCmd = ishell.Cmd{
		Name:    "rate",
		Aliases: []string{"r"},
		Help:    "MULTIPLIER (2, 4 or 8)",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Err(fmt.Errorf("usage: rate 2|4|8"))
				return
			}
			m, err := parseByte(c.Args[0])
			if err == nil {
				err = shellFrom(c).client.SetMultiplier(m)
			}
			if err != nil {
				c.Err(err)
				return
			}
			c.Println("OK")
		},
	}

	dacCmd = ishell.Cmd{
		Name:    "dac",
		Aliases: []string{"level", "t"},
		Help:    "VALUE (0-255 trigger level)",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Err(fmt.Errorf("usage: dac VALUE"))
				return
			}
			v, err := parseByte(c.Args[0])
			if err == nil {
				err = shellFrom(c).client.SetDAC(v)
			}
			if err != nil {
				c.Err(err)
				return
			}
			c.Println("OK")
		},
	}

	edgeCmd = ishell.Cmd{
		Name:    "edge",
		Aliases: []string{"i"},
		Help:    "rising|falling",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Err(fmt.Errorf("usage: edge rising|falling"))
				return
			}
			var edge byte
			switch c.Args[0] {
			case "rising", "r":
				edge = protocol.EdgeRising
			case "falling", "f":
				edge = protocol.EdgeFalling
			default:
				c.Err(fmt.Errorf("unknown edge %q", c.Args[0]))
				return
			}
			if err := shellFrom(c).client.SetEdge(edge); err != nil {
				c.Err(err)
				return
			}
			c.Println("OK")
		},
	}

	captureCmd = ishell.Cmd{
		Name:    "capture",
		Aliases: []string{"c"},
		Help:    "wait for the trigger and capture",
		Func: func(c *ishell.Context) {
			doCapture(c, false)
		},
	}

	forceCmd = ishell.Cmd{
		Name:    "force",
		Aliases: []string{"f"},
		Help:    "capture without waiting for the trigger",
		Func: func(c *ishell.Context) {
			doCapture(c, true)
		},
	}

	readCmd = ishell.Cmd{
		Name:    "read",
		Aliases: []string{"s"},
		Help:    "[COUNT] [FILE]",
		Func: func(c *ishell.Context) {
			s := shellFrom(c)
			n := s.cfg.Samples
			if len(c.Args) > 0 {
				v, err := strconv.Atoi(c.Args[0])
				if err != nil {
					c.Err(fmt.Errorf("invalid count %q", c.Args[0]))
					return
				}
				n = v
			}
			samples, err := s.client.ReadSamples(context.Background(), n)
			if err != nil {
				c.Err(err)
				return
			}
			if len(c.Args) > 1 {
				if err := os.WriteFile(c.Args[1], samples, 0o644); err != nil {
					c.Err(err)
					return
				}
				c.Printf("wrote %d samples to %s\n", len(samples), c.Args[1])
				return
			}
			printSummary(c, samples)
		},
	}

	baudCmd = ishell.Cmd{
		Name:    "baud",
		Aliases: []string{"B"},
		Help:    "toggle the link between normal and fast rate",
		Func: func(c *ishell.Context) {
			s := shellFrom(c)
			rate, err := s.client.ToggleBaud()
			s.setPrompt()
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("link at %d baud\n", rate)
		},
	}

	stopCmd = ishell.Cmd{
		Name:    "stop",
		Aliases: []string{"n"},
		Help:    "abort a pending capture or transfer",
		Func: func(c *ishell.Context) {
			if err := shellFrom(c).client.Stop(); err != nil {
				c.Err(err)
			}
		},
	}

	dictCmd = ishell.Cmd{
		Name:    "dictionary",
		Aliases: []string{"dict"},
		Help:    "list the command alphabet",
		Func: func(c *ishell.Context) {
			s := shellFrom(c)
			if s.registry != nil {
				c.Print(s.registry.GetDictionary())
				return
			}
			for _, code := range []byte{
				protocol.CmdVersion, protocol.CmdMultiplier, protocol.CmdDAC,
				protocol.CmdCapture, protocol.CmdForce, protocol.CmdSend,
				protocol.CmdEdge, protocol.CmdBaud, protocol.CmdStop,
			} {
				c.Printf("'%c' %s\n", code, protocol.CommandName(code))
			}
		},
	}

	commands = []*ishell.Cmd{
		&versionCmd,
		&rateCmd,
		&dacCmd,
		&edgeCmd,
		&captureCmd,
		&forceCmd,
		&readCmd,
		&baudCmd,
		&stopCmd,
		&dictCmd,
	}
)

// printSummary shows min, max and mean of a sample block
func printSummary(c *ishell.Context, samples []byte) {
	if len(samples) == 0 {
		c.Println("no samples")
		return
	}
	lo, hi, sum := samples[0], samples[0], 0
	for _, v := range samples {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
		sum += int(v)
	}
	c.Printf("%d samples: min %d max %d mean %.1f\n",
		len(samples), lo, hi, float64(sum)/float64(len(samples)))
}
