package simulator

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/choiby7/kickboard-rental-service/pkg/config"
)

func testBridge(t *testing.T) (*Bridge, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.SimulatorConfig{
		Dir:          dir,
		StatusFile:   "driving_status.txt",
		Binary:       "true",
		PollInterval: 2 * time.Millisecond,
		PollAttempts: 50,
	}
	return NewBridge(cfg), filepath.Join(dir, cfg.StatusFile)
}

func writeStatus(t *testing.T, path, line string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(line), 0o644))
}

func TestPollStatus_MissingFile(t *testing.T) {
	b, _ := testBridge(t)

	_, err := b.PollStatus()
	var telErr *TelemetryError
	require.ErrorAs(t, err, &telErr)
	assert.Equal(t, "status file unavailable", telErr.Reason)
}

func TestPollStatus_MalformedLine(t *testing.T) {
	b, path := testBridge(t)
	writeStatus(t, path, "DRIVING,KB001,5,5")

	_, err := b.PollStatus()
	var telErr *TelemetryError
	require.ErrorAs(t, err, &telErr)
	assert.Equal(t, "malformed status line", telErr.Reason)
}

func TestPollStatus_ValidLine(t *testing.T) {
	b, path := testBridge(t)
	writeStatus(t, path, "DRIVING,KB001,5,6,1.5,80")

	status, err := b.PollStatus()
	require.NoError(t, err)
	assert.Equal(t, "KB001", status.VehicleID)
	assert.InDelta(t, 1.5, status.Distance, 0.001)
}

func TestRequestReturn_Confirmed(t *testing.T) {
	b, path := testBridge(t)
	writeStatus(t, path, "DRIVING,KB001,5,5,1.0,82")

	// Stand in for the motion process: answer the request with a final
	// LOCKED line once it appears.
	go func() {
		for i := 0; i < 200; i++ {
			raw, err := os.ReadFile(path)
			if err == nil && string(raw) == TokenReturnRequested {
				_ = os.WriteFile(path, []byte("LOCKED,KB001,7,7,3.0,79"), 0o644)
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	status, ok, err := b.RequestReturn(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, TokenLocked, status.Token)
	assert.InDelta(t, 3.0, status.Distance, 0.001)
	assert.Equal(t, 79, status.Battery)
}

func TestRequestReturn_Timeout(t *testing.T) {
	b, path := testBridge(t)
	writeStatus(t, path, "DRIVING,KB001,5,5,1.0,82")

	_, ok, err := b.RequestReturn(context.Background())
	assert.NoError(t, err, "an unresponsive motion process is degraded service, not a failure")
	assert.False(t, ok)

	// The request itself must have been written for the process to see.
	raw, rerr := os.ReadFile(path)
	require.NoError(t, rerr)
	assert.Equal(t, TokenReturnRequested, string(raw))
}

func TestRequestReturn_MalformedFinalStatus(t *testing.T) {
	b, path := testBridge(t)
	writeStatus(t, path, "DRIVING,KB001,5,5,1.0,82")

	go func() {
		for i := 0; i < 200; i++ {
			raw, err := os.ReadFile(path)
			if err == nil && string(raw) == TokenReturnRequested {
				_ = os.WriteFile(path, []byte("LOCKED,KB001,7,7"), 0o644)
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	_, ok, err := b.RequestReturn(context.Background())
	assert.False(t, ok)
	var telErr *TelemetryError
	require.ErrorAs(t, err, &telErr)
	assert.Equal(t, "malformed final status", telErr.Reason)
}

func TestRequestReturn_ContextCanceled(t *testing.T) {
	b, path := testBridge(t)
	writeStatus(t, path, "DRIVING,KB001,5,5,1.0,82")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok, err := b.RequestReturn(ctx)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestStartDriving_SeedsStatusFile(t *testing.T) {
	b, path := testBridge(t)

	require.NoError(t, b.StartDriving("KB001", 5, 5, 85))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "DRIVING,KB001,5,5,0.0,85", string(raw))
}

func TestStartDriving_SpawnFailure(t *testing.T) {
	dir := t.TempDir()
	b := NewBridge(&config.SimulatorConfig{
		Dir:          dir,
		StatusFile:   "driving_status.txt",
		Binary:       filepath.Join(dir, "no-such-binary"),
		PollInterval: time.Millisecond,
		PollAttempts: 1,
	})

	err := b.StartDriving("KB001", 5, 5, 85)
	assert.Error(t, err)
}

func TestShutdown_WritesCommand(t *testing.T) {
	b, path := testBridge(t)

	b.Shutdown()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, TokenShutdown, string(raw))
}
