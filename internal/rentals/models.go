package rentals

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/choiby7/kickboard-rental-service/internal/pricing"
	"github.com/choiby7/kickboard-rental-service/internal/users"
	"github.com/choiby7/kickboard-rental-service/internal/vehicles"
)

// RentalStatus is the lifecycle state of a rental.
type RentalStatus string

const (
	StatusActive    RentalStatus = "ACTIVE"
	StatusCompleted RentalStatus = "COMPLETED"
	StatusCanceled  RentalStatus = "CANCELED"
)

// UsageRecord is an immutable snapshot of a rental's elapsed
// time/distance/cost-so-far. It is replaced wholesale whenever telemetry
// arrives and finalized when the rental completes.
type UsageRecord struct {
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Distance  float64    `json:"distance"`
	FinalCost *float64   `json:"final_cost,omitempty"`
}

// NewUsageRecord validates and creates a usage snapshot.
func NewUsageRecord(start time.Time, end *time.Time, distance float64) (UsageRecord, error) {
	if distance < 0 {
		return UsageRecord{}, fmt.Errorf("traveled distance must be non-negative, got %v", distance)
	}
	return UsageRecord{StartTime: start, EndTime: end, Distance: distance}, nil
}

// Rental is a single rental from creation to payment-settled completion.
// It holds non-owning references to its user and vehicle.
type Rental struct {
	ID        string            `json:"id"`
	User      *users.User       `json:"-"`
	Vehicle   *vehicles.Vehicle `json:"vehicle"`
	StartTime time.Time         `json:"start_time"`
	EndTime   *time.Time        `json:"end_time,omitempty"`
	Usage     UsageRecord       `json:"usage"`
	Status    RentalStatus      `json:"status"`
}

// NewRental opens an ACTIVE rental with a zero-distance usage record.
func NewRental(user *users.User, vehicle *vehicles.Vehicle, start time.Time) *Rental {
	return &Rental{
		ID:        newRentalID(),
		User:      user,
		Vehicle:   vehicle,
		StartTime: start,
		Usage:     UsageRecord{StartTime: start},
		Status:    StatusActive,
	}
}

// newRentalID builds a short typed rental id.
func newRentalID() string {
	return "RNT-" + strings.Split(uuid.New().String(), "-")[0]
}

// Complete stamps the end time, finalizes the usage record with the
// given distance and transitions to COMPLETED. A second invocation is a
// no-op: state transitions themselves cannot fail.
func (r *Rental) Complete(finalDistance float64) {
	if r.Status != StatusActive {
		return
	}
	now := time.Now()
	r.EndTime = &now
	r.Status = StatusCompleted
	r.Usage = UsageRecord{StartTime: r.StartTime, EndTime: &now, Distance: finalDistance}
}

// UpdateUsage replaces the usage record with a fresh snapshot at the
// given distance. Legal in any state so a late telemetry flush is not
// dropped, but only meaningful while ACTIVE.
func (r *Rental) UpdateUsage(distance float64) error {
	usage, err := NewUsageRecord(r.StartTime, r.EndTime, distance)
	if err != nil {
		return err
	}
	r.Usage = usage
	return nil
}

// RevertComplete rolls a COMPLETED rental back to ACTIVE after a failed
// settlement, clearing the end time. The usage telemetry gathered so far
// is kept so the user can retry with another instrument. No-op in any
// other state.
func (r *Rental) RevertComplete() {
	if r.Status != StatusCompleted {
		return
	}
	r.Status = StatusActive
	r.EndTime = nil
	r.Usage = UsageRecord{StartTime: r.StartTime, Distance: r.Usage.Distance}
}

// PricingUsage adapts the usage record for the fee pipeline.
func (r *Rental) PricingUsage() pricing.Usage {
	return pricing.Usage{
		StartTime: r.Usage.StartTime,
		EndTime:   r.Usage.EndTime,
		Distance:  r.Usage.Distance,
	}
}

// EventKind names a rental lifecycle event.
type EventKind string

const (
	EventRentalStarted EventKind = "rental.started"
	EventRentalEnded   EventKind = "rental.ended"
)
