package sim

import (
	"sync"

	"dsofw/core"
)

// Transition is one recorded change on a Line
type Transition struct {
	Dir   core.Direction
	Level bool
}

// Line is a simulated digital line. It remembers its latch and direction,
// reports edges to an optional watcher and keeps a history for tests.
type Line struct {
	mu      sync.Mutex
	name    string
	dir     core.Direction
	level   bool
	history []Transition

	// onEdge runs after every level change, outside the lock
	onEdge func(level bool)
	// sense, when set, supplies the level for ReadLevel
	sense func() bool
}

// NewLine returns an input line at low level
func NewLine(name string) *Line {
	return &Line{name: name}
}

// Name returns the line name
func (l *Line) Name() string { return l.name }

// SetDirection implements core.Line
func (l *Line) SetDirection(dir core.Direction) error {
	l.mu.Lock()
	l.dir = dir
	l.history = append(l.history, Transition{Dir: dir, Level: l.level})
	l.mu.Unlock()
	return nil
}

// SetLevel implements core.Line
func (l *Line) SetLevel(on bool) error {
	l.mu.Lock()
	changed := l.level != on
	l.level = on
	l.history = append(l.history, Transition{Dir: l.dir, Level: on})
	watch := l.onEdge
	l.mu.Unlock()

	if changed && watch != nil {
		watch(on)
	}
	return nil
}

// ReadLevel implements core.Line
func (l *Line) ReadLevel() bool {
	l.mu.Lock()
	sense := l.sense
	level := l.level
	l.mu.Unlock()

	if sense != nil {
		return sense()
	}
	return level
}

// Drive sets the level seen by ReadLevel from outside, as external
// hardware would on an input
func (l *Line) Drive(on bool) {
	l.mu.Lock()
	l.level = on
	l.mu.Unlock()
}

// Direction returns the current direction
func (l *Line) Direction() core.Direction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dir
}

// Level returns the output latch
func (l *Line) Level() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// Tristated reports whether the line is released (configured as input)
func (l *Line) Tristated() bool {
	return l.Direction() == core.DirectionInput
}

// History returns a copy of the recorded transitions
func (l *Line) History() []Transition {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Transition, len(l.history))
	copy(out, l.history)
	return out
}

// RisingEdges counts low to high transitions in the history
func (l *Line) RisingEdges() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	prev := false
	for _, t := range l.history {
		if t.Level && !prev {
			n++
		}
		prev = t.Level
	}
	return n
}

// ClearHistory forgets recorded transitions
func (l *Line) ClearHistory() {
	l.mu.Lock()
	l.history = nil
	l.mu.Unlock()
}
