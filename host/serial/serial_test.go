package serial

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/dev/ttyUSB0")
	require.Equal(t, "/dev/ttyUSB0", cfg.Device)
	require.Equal(t, 38400, cfg.Baud)
	require.Equal(t, 500*time.Millisecond, cfg.ReadTimeoutDuration())
}

func TestIsStandardBaud(t *testing.T) {
	require.True(t, IsStandardBaud(38400))
	require.True(t, IsStandardBaud(115200))
	require.False(t, IsStandardBaud(153600))
	require.False(t, IsStandardBaud(0))
}

type netTimeout struct{}

func (netTimeout) Error() string { return "i/o timeout" }
func (netTimeout) Timeout() bool { return true }

func TestIsTimeout(t *testing.T) {
	require.True(t, IsTimeout(ErrTimeout))
	require.True(t, IsTimeout(fmt.Errorf("reading reply: %w", ErrTimeout)))
	require.True(t, IsTimeout(netTimeout{}))
	require.False(t, IsTimeout(ErrClosed))
	require.False(t, IsTimeout(errors.New("timeout")))
	require.False(t, IsTimeout(nil))
}

func TestOpenErrors(t *testing.T) {
	_, err := Open(nil)
	require.Error(t, err)

	_, err = Open(&Config{Device: "/dev/null", Baud: 0})
	require.Error(t, err)

	missing := filepath.Join(t.TempDir(), "ttyMissing")
	_, err = Open(&Config{Device: missing, Baud: 38400})
	require.Error(t, err)
	_, err = Open(&Config{Device: missing, Baud: 153600})
	require.Error(t, err)
}
