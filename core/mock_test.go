package core

import (
	"errors"
	"strconv"
	"testing"
)

// recorder collects line and bus activity in order so tests can assert
// on sequencing across lines
type recorder struct {
	log []string
}

func (r *recorder) add(s string) {
	r.log = append(r.log, s)
}

func (r *recorder) reset() {
	r.log = nil
}

// mockLine is a recording Line
type mockLine struct {
	name  string
	rec   *recorder
	dir   Direction
	level bool
	// input overrides ReadLevel when non-nil
	input func() bool
}

func (m *mockLine) SetDirection(dir Direction) error {
	m.dir = dir
	m.rec.add(m.name + ":" + dir.String())
	return nil
}

func (m *mockLine) SetLevel(on bool) error {
	m.level = on
	if on {
		m.rec.add(m.name + "=1")
	} else {
		m.rec.add(m.name + "=0")
	}
	return nil
}

func (m *mockLine) ReadLevel() bool {
	if m.input != nil {
		return m.input()
	}
	return m.level
}

// mockSPI records bytes exchanged with the DAC
type mockSPI struct {
	rec  *recorder
	sent []byte
	fail bool
}

func (m *mockSPI) Tx(w, r []byte) error {
	for i, b := range w {
		got, err := m.Transfer(b)
		if err != nil {
			return err
		}
		if i < len(r) {
			r[i] = got
		}
	}
	return nil
}

func (m *mockSPI) Transfer(b byte) (byte, error) {
	if m.fail {
		return 0, errors.New("spi fault")
	}
	m.sent = append(m.sent, b)
	m.rec.add("spi:" + hexByte(b))
	return 0xFF, nil
}

// mockSerial is a ByteTransport fed from a byte queue
type mockSerial struct {
	rx     []byte
	tx     []byte
	bauds  []uint32
	onSend func(count int)
}

func (m *mockSerial) Init(baud uint32) error {
	m.bauds = append(m.bauds, baud)
	return nil
}

func (m *mockSerial) SendByte(b byte) error {
	m.tx = append(m.tx, b)
	if m.onSend != nil {
		m.onSend(len(m.tx))
	}
	return nil
}

func (m *mockSerial) ReceiveByte() (byte, error) {
	b, ok := m.TryReceiveByte()
	if !ok {
		return 0, ErrTransportClosed
	}
	return b, nil
}

func (m *mockSerial) TryReceiveByte() (byte, bool) {
	if len(m.rx) == 0 {
		return 0, false
	}
	b := m.rx[0]
	m.rx = m.rx[1:]
	return b, true
}

func (m *mockSerial) queue(data ...byte) {
	m.rx = append(m.rx, data...)
}

// mockBus returns an incrementing sample for every read
type mockBus struct {
	rec   *recorder
	next  byte
	reads int
}

func (m *mockBus) ReadSample() byte {
	s := m.next
	m.next++
	m.reads++
	m.rec.add("bus:" + strconv.Itoa(int(s)))
	return s
}

// testBoard bundles the mocks behind a Board
type testBoard struct {
	rec    *recorder
	lines  map[string]*mockLine
	spi    *mockSPI
	serial *mockSerial
	bus    *mockBus
	delays []uint32
	board  *Board
}

func newTestBoard() *testBoard {
	rec := &recorder{}
	tb := &testBoard{
		rec:    rec,
		lines:  make(map[string]*mockLine),
		spi:    &mockSPI{rec: rec},
		serial: &mockSerial{},
		bus:    &mockBus{rec: rec},
	}
	line := func(name string) *mockLine {
		l := &mockLine{name: name, rec: rec}
		tb.lines[name] = l
		return l
	}
	tb.board = &Board{
		RAMRead:      line("ramread"),
		Enable:       line("enable"),
		Force:        line("force"),
		EdgeSelect:   line("edge"),
		SampleClock:  line("sclk"),
		FillComplete: line("fill"),
		PLLS0:        line("s0"),
		PLLS1:        line("s1"),
		DACSelect:    line("cs"),
		Bus:          tb.bus,
		DAC:          tb.spi,
		Serial:       tb.serial,
		Delay: func(us uint32) {
			tb.delays = append(tb.delays, us)
			rec.add("delay:" + strconv.Itoa(int(us)))
		},
	}
	return tb
}

func (tb *testBoard) device(t *testing.T) *Device {
	t.Helper()
	d, err := NewDevice(tb.board)
	if err != nil {
		t.Fatalf("NewDevice failed: %v", err)
	}
	return d
}

// count returns how many times entry appears in the log
func (tb *testBoard) count(entry string) int {
	n := 0
	for _, e := range tb.rec.log {
		if e == entry {
			n++
		}
	}
	return n
}

// index returns the position of the first occurrence of entry, or -1
func (tb *testBoard) index(entry string) int {
	for i, e := range tb.rec.log {
		if e == entry {
			return i
		}
	}
	return -1
}
