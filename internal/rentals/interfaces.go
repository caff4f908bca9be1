package rentals

import (
	"context"

	"github.com/choiby7/kickboard-rental-service/internal/simulator"
)

// SimulatorBridge is the engine's view of the motion-process IPC.
// Implemented by internal/simulator.Bridge.
type SimulatorBridge interface {
	StartDriving(vehicleID string, x, y, battery int) error
	PollStatus() (simulator.Status, error)
	RequestReturn(ctx context.Context) (simulator.Status, bool, error)
	Shutdown()
}

// Notifier receives rental lifecycle events. Fire-and-forget: the engine
// never consumes a return value.
type Notifier interface {
	Publish(ctx context.Context, kind EventKind, rental *Rental)
}

// SnapshotStore persists the engine's aggregate state after every
// state-changing operation. Best-effort: failures are logged, never
// rolled into business state.
type SnapshotStore interface {
	Save(ctx context.Context, snapshot *Snapshot) error
}

// HistoryRepository records rentals for per-user history queries.
type HistoryRepository interface {
	SaveRental(ctx context.Context, rental *Rental) error
	HistoryForUser(ctx context.Context, userID string) ([]HistoryEntry, error)
}
