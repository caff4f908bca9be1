package notifications

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/choiby7/kickboard-rental-service/internal/rentals"
	"github.com/choiby7/kickboard-rental-service/pkg/eventbus"
	"github.com/choiby7/kickboard-rental-service/pkg/logger"
)

// Subjects for rental lifecycle events on the bus.
const (
	SubjectRentalStarted = "rentals.started"
	SubjectRentalEnded   = "rentals.ended"
)

// RentalEventData is the payload carried by rental lifecycle events.
type RentalEventData struct {
	RentalID  string     `json:"rental_id"`
	UserID    string     `json:"user_id"`
	VehicleID string     `json:"vehicle_id"`
	Distance  float64    `json:"distance"`
	FinalCost *float64   `json:"final_cost,omitempty"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

// BusPublisher publishes rental lifecycle events on the NATS event bus.
// Fire-and-forget: publish failures are logged, never surfaced.
type BusPublisher struct {
	bus *eventbus.Bus
}

// NewBusPublisher creates a publisher over the given bus.
func NewBusPublisher(bus *eventbus.Bus) *BusPublisher {
	return &BusPublisher{bus: bus}
}

// Publish emits the event for the rental.
func (p *BusPublisher) Publish(ctx context.Context, kind rentals.EventKind, rental *rentals.Rental) {
	subject := SubjectRentalStarted
	if kind == rentals.EventRentalEnded {
		subject = SubjectRentalEnded
	}

	data := RentalEventData{
		RentalID:  rental.ID,
		UserID:    rental.User.ID,
		VehicleID: rental.Vehicle.ID,
		Distance:  rental.Usage.Distance,
		FinalCost: rental.Usage.FinalCost,
		StartTime: rental.StartTime,
		EndTime:   rental.EndTime,
	}

	if err := p.bus.Publish(ctx, subject, string(kind), data); err != nil {
		logger.WithContext(ctx).Warn("failed to publish rental event",
			zap.String("subject", subject),
			zap.String("rental_id", rental.ID),
			zap.Error(err))
	}
}

// LogPublisher logs rental lifecycle events; used when NATS is not
// configured.
type LogPublisher struct{}

// Publish logs the event.
func (LogPublisher) Publish(ctx context.Context, kind rentals.EventKind, rental *rentals.Rental) {
	logger.WithContext(ctx).Info("rental event",
		zap.String("kind", string(kind)),
		zap.String("rental_id", rental.ID),
		zap.String("user_id", rental.User.ID),
		zap.String("vehicle_id", rental.Vehicle.ID))
}
