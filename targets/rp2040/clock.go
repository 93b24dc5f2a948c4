//go:build rp2040

package main

import (
	"runtime/volatile"
	"unsafe"
)

// RP2040 Timer peripheral memory map
const (
	timerBase     = 0x40054000
	timerTIMERAWL = timerBase + 0x0C // Raw timer low word
)

var timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))

// GetHardwareTime reads the low 32 bits of the 1MHz microsecond timer
func GetHardwareTime() uint32 {
	return timerRAWL.Get()
}

// delayMicros spins on the hardware timer. Wraparound is handled by the
// unsigned subtraction.
func delayMicros(us uint32) {
	start := GetHardwareTime()
	for GetHardwareTime()-start < us {
	}
}
