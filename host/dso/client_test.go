package dso

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dsofw/core"
	"dsofw/host/serial"
	"dsofw/protocol"
	"dsofw/sim"
)

type rig struct {
	scope  *sim.Scope
	client *Client
	opened []int
}

func newRig(t *testing.T, triggerAfter int) *rig {
	t.Helper()
	cfg := sim.DefaultConfig()
	cfg.TriggerAfterPolls = triggerAfter
	cfg.ReadTimeout = 100 * time.Millisecond
	scope := sim.New(cfg)

	dev, err := core.NewDevice(scope.Board())
	require.NoError(t, err)
	require.NoError(t, dev.Init())

	done := make(chan error, 1)
	go func() { done <- dev.Run() }()

	r := &rig{scope: scope}
	r.client, err = Dial(func(baud int) (serial.Port, error) {
		r.opened = append(r.opened, baud)
		return scope.HostPort(), nil
	}, protocol.BaudNormal, protocol.BaudFast)
	require.NoError(t, err)

	t.Cleanup(func() {
		r.client.Close()
		scope.Close()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("device loop did not stop")
		}
	})
	return r
}

// sync waits until every previously sent command has been executed
func (r *rig) sync(t *testing.T) {
	t.Helper()
	_, err := r.client.Version(context.Background())
	require.NoError(t, err)
}

func TestClientVersion(t *testing.T) {
	r := newRig(t, 8)
	v, err := r.client.Version(context.Background())
	require.NoError(t, err)
	require.Equal(t, "DSO Version 2.0", v)
}

func TestClientSettings(t *testing.T) {
	r := newRig(t, 8)

	require.NoError(t, r.client.SetMultiplier(8))
	require.NoError(t, r.client.SetDAC(200))
	require.NoError(t, r.client.SetEdge(protocol.EdgeFalling))
	r.sync(t)

	require.Equal(t, uint8(8), r.scope.Multiplier())
	require.Equal(t, uint8(200), r.scope.DAC.Value())
	require.True(t, r.scope.EdgeSelect.Level())

	require.ErrorIs(t, r.client.SetMultiplier(3), ErrBadParameter)
	require.ErrorIs(t, r.client.SetEdge('x'), ErrBadParameter)
}

func TestClientCaptureAndRead(t *testing.T) {
	r := newRig(t, 8)
	ctx := context.Background()

	require.NoError(t, r.client.Capture(ctx, false))
	require.Equal(t, 1, r.scope.Captures())

	all, err := r.client.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, protocol.MaxSamples)
	require.Equal(t, r.scope.Samples()[:protocol.MaxSamples], all)

	part, err := r.client.ReadSamples(ctx, 100)
	require.NoError(t, err)
	require.Equal(t, r.scope.Samples()[:100], part)

	// the link is clean after a stopped transfer
	r.sync(t)

	_, err = r.client.ReadSamples(ctx, 0)
	require.ErrorIs(t, err, ErrBadParameter)
}

func TestClientForcedCapture(t *testing.T) {
	r := newRig(t, 0)
	require.NoError(t, r.client.Capture(context.Background(), true))
	require.Equal(t, 1, r.scope.Captures())
}

func TestClientCaptureCancel(t *testing.T) {
	r := newRig(t, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := r.client.Capture(ctx, false)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Zero(t, r.scope.Captures())

	r.sync(t)
}

func TestClientToggleBaud(t *testing.T) {
	r := newRig(t, 8)

	baud, err := r.client.ToggleBaud()
	require.NoError(t, err)
	require.Equal(t, protocol.BaudFast, baud)
	r.sync(t)
	require.Equal(t, uint32(protocol.BaudFast), r.scope.UART.Baud())

	baud, err = r.client.ToggleBaud()
	require.NoError(t, err)
	require.Equal(t, protocol.BaudNormal, baud)
	require.Equal(t, []int{protocol.BaudNormal, protocol.BaudFast, protocol.BaudNormal}, r.opened)
}

func TestClientClosed(t *testing.T) {
	r := newRig(t, 8)
	require.NoError(t, r.client.Close())
	require.ErrorIs(t, r.client.SetDAC(1), serial.ErrClosed)
}
