package simulator

import (
	"fmt"
	"strconv"
	"strings"
)

// Command/status tokens exchanged through the shared status file. The
// engine writes RETURN_REQUESTED and SHUTDOWN; the motion process writes
// DRIVING and LOCKED.
const (
	TokenDriving         = "DRIVING"
	TokenReturnRequested = "RETURN_REQUESTED"
	TokenLocked          = "LOCKED"
	TokenShutdown        = "SHUTDOWN"
)

// statusFieldCount is the number of comma-separated fields on a
// DRIVING/LOCKED line.
const statusFieldCount = 6

// Status is one parsed telemetry line:
// <TOKEN>,<vehicleId>,<x>,<y>,<distance>,<battery>
type Status struct {
	Token     string
	VehicleID string
	X         int
	Y         int
	Distance  float64
	Battery   int
}

// FormatStatusLine renders a status line in wire format.
func FormatStatusLine(s Status) string {
	return fmt.Sprintf("%s,%s,%d,%d,%.1f,%d", s.Token, s.VehicleID, s.X, s.Y, s.Distance, s.Battery)
}

// ParseStatusLine parses a telemetry line. Lines with fewer than six
// fields, or with unparsable numeric fields, are malformed.
func ParseStatusLine(line string) (Status, error) {
	parts := strings.Split(strings.TrimSpace(line), ",")
	if len(parts) < statusFieldCount {
		return Status{}, fmt.Errorf("expected %d fields, got %d", statusFieldCount, len(parts))
	}

	x, err := strconv.Atoi(parts[2])
	if err != nil {
		return Status{}, fmt.Errorf("parse x coordinate %q: %w", parts[2], err)
	}
	y, err := strconv.Atoi(parts[3])
	if err != nil {
		return Status{}, fmt.Errorf("parse y coordinate %q: %w", parts[3], err)
	}
	distance, err := strconv.ParseFloat(parts[4], 64)
	if err != nil {
		return Status{}, fmt.Errorf("parse distance %q: %w", parts[4], err)
	}
	if distance < 0 {
		return Status{}, fmt.Errorf("negative distance %v", distance)
	}
	battery, err := strconv.Atoi(parts[5])
	if err != nil {
		return Status{}, fmt.Errorf("parse battery %q: %w", parts[5], err)
	}

	return Status{
		Token:     parts[0],
		VehicleID: parts[1],
		X:         x,
		Y:         y,
		Distance:  distance,
		Battery:   battery,
	}, nil
}

// Location renders the position as the "x,y" form vehicles carry.
func (s Status) Location() string {
	return fmt.Sprintf("%d,%d", s.X, s.Y)
}
