//go:build rp2040

package main

import (
	"machine"
	"time"

	"dsofw/core"
)

// Debug counters
var (
	panics     uint32
	linkErrors uint32
)

func main() {
	// Disable the watchdog so state from a previous reset cannot fire it
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	// Debug output goes to the USB console, never to the scope link
	core.SetDebugWriter(func(s string) {
		machine.Serial.Write([]byte(s))
		machine.Serial.Write([]byte("\r\n"))
	})
	core.InitAsyncDebug()

	board := newBoard(DefaultBoardConfig())
	dev, err := core.NewDevice(board)
	if err != nil {
		for {
			core.DebugAsync("dso: board: " + err.Error())
			time.Sleep(time.Second)
		}
	}

	for {
		// Recover from panics so the scope keeps answering
		func() {
			defer func() {
				if r := recover(); r != nil {
					panics++
					dev.Events().Dump(core.DebugAsync)
				}
			}()

			if err := dev.Init(); err != nil {
				core.DebugAsync("dso: init: " + err.Error())
				time.Sleep(100 * time.Millisecond)
				return
			}
			if err := dev.Run(); err != nil {
				linkErrors++
				core.DebugAsync("dso: link: " + err.Error())
			}
		}()
	}
}
