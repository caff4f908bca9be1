package simulator

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/choiby7/kickboard-rental-service/pkg/config"
	"github.com/choiby7/kickboard-rental-service/pkg/logger"
)

// TelemetryError marks a missing or malformed status file: the external
// motion process is not cooperating correctly. It is surfaced to the
// caller, never retried automatically.
type TelemetryError struct {
	Reason string
	Err    error
}

func (e *TelemetryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("telemetry: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("telemetry: %s", e.Reason)
}

func (e *TelemetryError) Unwrap() error {
	return e.Err
}

// Bridge synchronizes rental usage with the externally-running motion
// process through a single shared status file. Each side rewrites the
// whole line on update (last-writer-wins, not a queue).
type Bridge struct {
	dir          string
	statusPath   string
	binary       string
	pollInterval time.Duration
	pollAttempts int
}

// NewBridge creates a bridge from the simulator configuration.
func NewBridge(cfg *config.SimulatorConfig) *Bridge {
	return &Bridge{
		dir:          cfg.Dir,
		statusPath:   filepath.Join(cfg.Dir, cfg.StatusFile),
		binary:       cfg.Binary,
		pollInterval: cfg.PollInterval,
		pollAttempts: cfg.PollAttempts,
	}
}

// StartDriving seeds the status file with the vehicle's starting state
// and spawns the motion process detached. The bridge does not own the
// process lifetime beyond the return handshake.
func (b *Bridge) StartDriving(vehicleID string, x, y, battery int) error {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fmt.Errorf("create simulation dir: %w", err)
	}

	initial := FormatStatusLine(Status{
		Token:     TokenDriving,
		VehicleID: vehicleID,
		X:         x,
		Y:         y,
		Distance:  0,
		Battery:   battery,
	})
	if err := b.writeLine(initial); err != nil {
		return fmt.Errorf("write initial driving status: %w", err)
	}

	cmd := exec.Command(b.binary,
		vehicleID, strconv.Itoa(x), strconv.Itoa(y), strconv.Itoa(battery))
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawn motion process: %w", err)
	}
	// Detach: the process is reaped by the OS, not waited on here.
	if err := cmd.Process.Release(); err != nil {
		logger.Warn("failed to release motion process handle", zap.Error(err))
	}

	logger.Info("motion process started",
		zap.String("vehicle_id", vehicleID),
		zap.String("status_file", b.statusPath))
	return nil
}

// PollStatus reads the current status line and parses it. A missing file
// or a malformed line is a TelemetryError.
func (b *Bridge) PollStatus() (Status, error) {
	raw, err := os.ReadFile(b.statusPath)
	if err != nil {
		return Status{}, &TelemetryError{Reason: "status file unavailable", Err: err}
	}
	status, err := ParseStatusLine(string(raw))
	if err != nil {
		return Status{}, &TelemetryError{Reason: "malformed status line", Err: err}
	}
	return status, nil
}

// RequestReturn writes the RETURN_REQUESTED command and polls for a
// LOCKED status at a fixed interval for a bounded number of attempts.
//
// On timeout it does not fail: ok=false is returned with a logged
// warning, and the caller proceeds with the usage record it already
// holds. A best-effort final distance beats blocking the user. A
// malformed LOCKED line is still a TelemetryError.
func (b *Bridge) RequestReturn(ctx context.Context) (Status, bool, error) {
	if err := b.writeLine(TokenReturnRequested); err != nil {
		return Status{}, false, &TelemetryError{Reason: "write return request", Err: err}
	}

	for i := 0; i < b.pollAttempts; i++ {
		raw, err := os.ReadFile(b.statusPath)
		if err == nil {
			line := string(raw)
			if len(line) >= len(TokenLocked) && line[:len(TokenLocked)] == TokenLocked {
				status, perr := ParseStatusLine(line)
				if perr != nil {
					return Status{}, false, &TelemetryError{Reason: "malformed final status", Err: perr}
				}
				return status, true, nil
			}
		}

		select {
		case <-ctx.Done():
			logger.Warn("return handshake canceled; using last known driving data",
				zap.Error(ctx.Err()))
			return Status{}, false, nil
		case <-time.After(b.pollInterval):
		}
	}

	logger.Warn("motion process did not confirm return in time; using last known driving data",
		zap.Int("attempts", b.pollAttempts),
		zap.Duration("interval", b.pollInterval))
	return Status{}, false, nil
}

// Shutdown writes the SHUTDOWN command as a courtesy signal for the
// motion process to terminate. Fire-and-forget, no acknowledgement.
func (b *Bridge) Shutdown() {
	if err := b.writeLine(TokenShutdown); err != nil {
		logger.Warn("failed to send shutdown command", zap.Error(err))
	}
}

// writeLine rewrites the whole status file with a single line; the
// motion process assumes truncate-and-rewrite semantics on each update.
func (b *Bridge) writeLine(line string) error {
	return os.WriteFile(b.statusPath, []byte(line), 0o644)
}
