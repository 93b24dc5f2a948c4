package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// Event type codes
const (
	EvtCommand          = 1 // command dispatched: code, param
	EvtIgnored          = 2 // byte outside the alphabet dropped
	EvtCaptureArmed     = 3 // enable pulsed: code=1 when forced
	EvtCaptureDone      = 4 // fill complete seen: value=polls
	EvtCaptureCancelled = 5 // stop seen while capturing: value=polls
	EvtTransferDone     = 6 // transfer ended: code=1 when stopped, value=samples
)

// EventRingSize is how many events are kept for post-mortem dumps
const EventRingSize = 32

// Event captures one dispatcher event
type Event struct {
	Type  uint8
	Code  byte
	Value uint32
}

// EventRing keeps the most recent EventRingSize events
type EventRing struct {
	events [EventRingSize]Event
	head   uint8
	count  uint8
}

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {}

	// debugEnabled controls whether DebugPrintln produces output
	debugEnabled bool

	// Async debug output channel
	debugChan chan string
)

// SetDebugWriter sets the platform-specific debug output function
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output. Output from inside the
// capture and transfer loops would disturb their timing, so it stays off
// unless asked for.
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// InitAsyncDebug starts a goroutine draining DebugAsync messages
func InitAsyncDebug() {
	debugChan = make(chan string, 16)
	go debugOutputWorker()
}

func debugOutputWorker() {
	for msg := range debugChan {
		if debugPrintln != nil {
			debugPrintln(msg)
		}
	}
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DebugAsync queues a message without blocking, dropping it when the
// queue is full
func DebugAsync(msg string) {
	if debugChan != nil {
		select {
		case debugChan <- msg:
		default:
		}
	}
}

// Record appends an event, overwriting the oldest when full
func (r *EventRing) Record(eventType uint8, code byte, value uint32) {
	r.events[r.head] = Event{Type: eventType, Code: code, Value: value}
	r.head = (r.head + 1) % EventRingSize
	if r.count < EventRingSize {
		r.count++
	}
}

// Len returns the number of stored events
func (r *EventRing) Len() int {
	return int(r.count)
}

// Snapshot returns stored events oldest first
func (r *EventRing) Snapshot() []Event {
	out := make([]Event, 0, r.count)
	start := (r.head + EventRingSize - r.count) % EventRingSize
	for i := uint8(0); i < r.count; i++ {
		out = append(out, r.events[(start+i)%EventRingSize])
	}
	return out
}

// Last returns the newest event
func (r *EventRing) Last() (Event, bool) {
	if r.count == 0 {
		return Event{}, false
	}
	return r.events[(r.head+EventRingSize-1)%EventRingSize], true
}

// Clear empties the ring
func (r *EventRing) Clear() {
	*r = EventRing{}
}

// Dump writes the ring oldest first through w
func (r *EventRing) Dump(w DebugWriter) {
	if w == nil {
		return
	}
	w("[EVENTS] === Event Ring Dump ===")
	for _, evt := range r.Snapshot() {
		w("[EVENTS] " + eventName(evt.Type) +
			" code=" + hexByte(evt.Code) +
			" value=" + utoa(evt.Value))
	}
	w("[EVENTS] === End Dump ===")
}

func eventName(t uint8) string {
	switch t {
	case EvtCommand:
		return "COMMAND"
	case EvtIgnored:
		return "IGNORED"
	case EvtCaptureArmed:
		return "CAPTURE_ARMED"
	case EvtCaptureDone:
		return "CAPTURE_DONE"
	case EvtCaptureCancelled:
		return "CAPTURE_CANCEL"
	case EvtTransferDone:
		return "TRANSFER_DONE"
	}
	return "UNKNOWN"
}
