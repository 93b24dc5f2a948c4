package core

// Direction selects whether a line is driven by the MCU or sensed by it
type Direction uint8

const (
	DirectionInput Direction = iota
	DirectionOutput
)

func (d Direction) String() string {
	if d == DirectionOutput {
		return "out"
	}
	return "in"
}

// Line is a single named digital signal. Platform code implements it over
// real GPIO; the simulator and tests provide their own.
type Line interface {
	// SetDirection switches the line between input (tri-stated) and output
	SetDirection(dir Direction) error

	// SetLevel sets the output latch to high (true) or low (false). On an
	// input line the latch is remembered and takes effect once the line is
	// switched to output.
	SetLevel(on bool) error

	// ReadLevel returns the current level seen on the line
	ReadLevel() bool
}

// pulse drives a rising then falling edge on l
func pulse(l Line) error {
	if err := l.SetLevel(true); err != nil {
		return err
	}
	return l.SetLevel(false)
}

// configureOutput makes l an output at the given idle level
func configureOutput(l Line, on bool) error {
	if err := l.SetDirection(DirectionOutput); err != nil {
		return err
	}
	return l.SetLevel(on)
}

// DataBus is the parallel sample bus between the capture RAM and the MCU
type DataBus interface {
	// ReadSample returns the byte currently latched on the bus
	ReadSample() byte
}

// ParallelBus assembles a sample from eight input lines. Bits[i] is the
// line carrying sample bit i, which lets boards route D0-D7 to arbitrary
// pins.
type ParallelBus struct {
	Bits [8]Line
}

// Configure sets every bus line to input
func (p *ParallelBus) Configure() error {
	for _, l := range p.Bits {
		if l == nil {
			return errMissingLine("data bus bit")
		}
		if err := l.SetDirection(DirectionInput); err != nil {
			return err
		}
	}
	return nil
}

// ReadSample implements DataBus
func (p *ParallelBus) ReadSample() byte {
	var sample byte
	for i, l := range p.Bits {
		if l.ReadLevel() {
			sample |= 1 << uint(i)
		}
	}
	return sample
}

// ReferenceClock produces the sampling reference for the PLL
type ReferenceClock interface {
	// Configure starts the clock output at hz
	Configure(hz uint32) error
}
