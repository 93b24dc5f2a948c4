package core

import "time"

// SettleMicros is the pause between arming a capture and polling for its
// completion, giving the capture logic time to register the pulse.
const SettleMicros = 10

// BusyWait spins for us microseconds without yielding
func BusyWait(us uint32) {
	deadline := time.Now().Add(time.Duration(us) * time.Microsecond)
	for time.Now().Before(deadline) {
	}
}
