package rentals

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/choiby7/kickboard-rental-service/internal/payments"
	"github.com/choiby7/kickboard-rental-service/internal/pricing"
	"github.com/choiby7/kickboard-rental-service/internal/promos"
	"github.com/choiby7/kickboard-rental-service/internal/simulator"
	"github.com/choiby7/kickboard-rental-service/internal/users"
	"github.com/choiby7/kickboard-rental-service/internal/vehicles"
	"github.com/choiby7/kickboard-rental-service/pkg/common"
	"github.com/choiby7/kickboard-rental-service/pkg/logger"
)

// Service is the rental lifecycle engine. Public operations run to
// completion under a single mutex: the engine is single-threaded from
// the caller's perspective, and the only concurrency in the system is
// with the external motion process on the other side of the bridge.
type Service struct {
	mu sync.Mutex

	vehicles   *vehicles.Registry
	users      *users.Store
	bridge     SimulatorBridge
	notifier   Notifier
	snapshots  SnapshotStore
	history    HistoryRepository
	promos     *promos.Service
	processor  *payments.Processor
	strategies []pricing.Strategy

	minBattery int
	rentals    []*Rental
}

// NewService wires the rental engine with its collaborators.
func NewService(
	vehicleRegistry *vehicles.Registry,
	userStore *users.Store,
	bridge SimulatorBridge,
	notifier Notifier,
	snapshots SnapshotStore,
	history HistoryRepository,
	promoService *promos.Service,
	processor *payments.Processor,
	strategies []pricing.Strategy,
	minBattery int,
) *Service {
	return &Service{
		vehicles:   vehicleRegistry,
		users:      userStore,
		bridge:     bridge,
		notifier:   notifier,
		snapshots:  snapshots,
		history:    history,
		promos:     promoService,
		processor:  processor,
		strategies: strategies,
		minBattery: minBattery,
	}
}

// Strategies lists the fee strategies the outer layer may offer.
func (s *Service) Strategies() []pricing.Strategy {
	return s.strategies
}

// Open rents the vehicle to the user: validates availability, battery
// and the one-active-rental-per-user rule, starts the motion process,
// unlocks the vehicle and opens an ACTIVE rental.
func (s *Service) Open(ctx context.Context, userID, vehicleID string) (*Rental, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.users.FindByID(userID)
	if user == nil {
		return nil, common.NewNotFoundError("user not found", nil)
	}
	vehicle := s.vehicles.FindByID(vehicleID)
	if vehicle == nil {
		return nil, common.NewNotFoundError("vehicle not found", nil)
	}
	if vehicle.Status != vehicles.StatusAvailable {
		return nil, common.NewConflictError("vehicle is not available for rental", nil)
	}
	if vehicle.Battery < s.minBattery {
		return nil, common.NewConflictError("vehicle battery too low for rental", nil)
	}
	if s.activeRentalForUser(userID) != nil {
		return nil, common.NewConflictError("user already has an active rental", nil)
	}

	x, y, err := parseLocation(vehicle.Location)
	if err != nil {
		return nil, common.NewInternalError("vehicle has a corrupt location", err)
	}
	if err := s.bridge.StartDriving(vehicle.ID, x, y, vehicle.Battery); err != nil {
		return nil, common.NewInternalError("failed to start the motion process", err)
	}

	if !vehicle.Unlock() {
		return nil, common.NewConflictError("vehicle is not available for rental", nil)
	}

	rental := NewRental(user, vehicle, time.Now())
	s.rentals = append(s.rentals, rental)

	s.notifier.Publish(ctx, EventRentalStarted, rental)
	s.persist(ctx, rental)

	logger.WithContext(ctx).Info("rental opened",
		zap.String("rental_id", rental.ID),
		zap.String("user_id", userID),
		zap.String("vehicle_id", vehicleID))
	return rental, nil
}

// ActiveRentalForUser returns the user's ACTIVE rental, or a not-found
// error when none exists.
func (s *Service) ActiveRentalForUser(userID string) (*Rental, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rental := s.activeRentalForUser(userID)
	if rental == nil {
		return nil, common.NewNotFoundError("no active rental for user", nil)
	}
	return rental, nil
}

// FindByID returns the rental with the given id.
func (s *Service) FindByID(rentalID string) (*Rental, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rental := s.findByID(rentalID)
	if rental == nil {
		return nil, common.NewNotFoundError("rental not found", nil)
	}
	return rental, nil
}

// History returns the user's rental history from the history store.
func (s *Service) History(ctx context.Context, userID string) ([]HistoryEntry, error) {
	return s.history.HistoryForUser(ctx, userID)
}

// Poll reads fresh telemetry and folds it into the rental and its
// vehicle. The bridge never trusts telemetry older than this read.
func (s *Service) Poll(ctx context.Context, rentalID string) (*Rental, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rental := s.findByID(rentalID)
	if rental == nil {
		return nil, common.NewNotFoundError("rental not found", nil)
	}

	status, err := s.bridge.PollStatus()
	if err != nil {
		return nil, err
	}
	if err := foldTelemetry(rental, status); err != nil {
		return nil, err
	}

	s.persistSnapshot(ctx)
	return rental, nil
}

// Return drives the return handshake and completes the rental. When the
// motion process does not confirm within the bounded wait, the rental
// completes with the last known usage record instead of blocking.
func (s *Service) Return(ctx context.Context, rentalID string) (*Rental, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rental := s.findByID(rentalID)
	if rental == nil {
		return nil, common.NewNotFoundError("rental not found", nil)
	}
	if rental.Status != StatusActive {
		return nil, common.NewConflictError("rental is not active", nil)
	}

	status, confirmed, err := s.bridge.RequestReturn(ctx)
	if err != nil {
		return nil, err
	}
	if confirmed {
		if err := foldTelemetry(rental, status); err != nil {
			return nil, err
		}
	}

	rental.Complete(rental.Usage.Distance)
	s.persist(ctx, rental)

	logger.WithContext(ctx).Info("rental returned",
		zap.String("rental_id", rental.ID),
		zap.Bool("handshake_confirmed", confirmed),
		zap.Float64("distance", rental.Usage.Distance))
	return rental, nil
}

// StrategyQuote is one fee strategy with its cost for a given rental.
type StrategyQuote struct {
	Index int     `json:"index"`
	Name  string  `json:"name"`
	Cost  float64 `json:"cost"`
}

// Quote lists the fee strategies priced against the rental's usage and
// the promotions available to it.
func (s *Service) Quote(rentalID string) ([]StrategyQuote, []pricing.DiscountSpec, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rental := s.findByID(rentalID)
	if rental == nil {
		return nil, nil, common.NewNotFoundError("rental not found", nil)
	}

	usage := rental.PricingUsage()
	quotes := make([]StrategyQuote, 0, len(s.strategies))
	for i, strategy := range s.strategies {
		quotes = append(quotes, StrategyQuote{
			Index: i,
			Name:  strategy.Name(),
			Cost:  strategy.Calculate(usage),
		})
	}

	discounts := s.promos.AvailableDiscounts(rental.User, rental.Usage.Distance)
	return quotes, discounts, nil
}

// SettlementResult is what Finalize reports to the outer layer.
type SettlementResult struct {
	Rental  *Rental           `json:"rental"`
	Payment *payments.Payment `json:"payment"`
	Fee     float64           `json:"fee"`
	Settled bool              `json:"settled"`
}

// Finalize prices the completed rental and settles it against the chosen
// instrument. On settlement failure the completion is rolled back and
// the usage telemetry kept, so the caller can retry with another
// instrument. Any failure after completion triggers the same rollback.
func (s *Service) Finalize(ctx context.Context, rentalID string, strategyIdx int, selectedDiscounts []int, instrumentIdx int) (*SettlementResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rental := s.findByID(rentalID)
	if rental == nil {
		return nil, common.NewNotFoundError("rental not found", nil)
	}
	if rental.Status != StatusCompleted {
		return nil, common.NewConflictError("rental has not been returned yet", nil)
	}
	if strategyIdx < 0 || strategyIdx >= len(s.strategies) {
		return nil, common.NewBadRequestError("unknown fee strategy", nil)
	}
	if instrumentIdx < 0 || instrumentIdx >= len(rental.User.Instruments) {
		return nil, common.NewBadRequestError("unknown payment instrument", nil)
	}
	instrument := rental.User.Instruments[instrumentIdx]

	available := s.promos.AvailableDiscounts(rental.User, rental.Usage.Distance)
	fee, err := pricing.CalculateFinalFee(s.strategies[strategyIdx], rental.PricingUsage(), available, selectedDiscounts)
	if err != nil {
		rental.RevertComplete()
		return nil, common.NewInternalError("fee calculation failed", err)
	}

	amount := fee.FinalCost()
	payment, settled, err := s.processor.Process(rental.ID, instrument, amount)
	if err != nil {
		rental.RevertComplete()
		return nil, common.NewInternalError("payment validation failed", err)
	}

	if !settled {
		rental.RevertComplete()
		s.persistSnapshot(ctx)
		return &SettlementResult{Rental: rental, Payment: payment, Fee: amount, Settled: false}, nil
	}

	rental.Usage.FinalCost = &amount
	rental.Vehicle.Lock()
	s.promos.ConsumeCoupons(rental.User, available, selectedDiscounts)
	s.notifier.Publish(ctx, EventRentalEnded, rental)
	s.bridge.Shutdown()
	s.persist(ctx, rental)

	logger.WithContext(ctx).Info("rental settled",
		zap.String("rental_id", rental.ID),
		zap.String("payment_id", payment.ID),
		zap.Float64("amount", amount))
	return &SettlementResult{Rental: rental, Payment: payment, Fee: amount, Settled: true}, nil
}

func (s *Service) activeRentalForUser(userID string) *Rental {
	for _, r := range s.rentals {
		if r.User != nil && r.User.ID == userID && r.Status == StatusActive {
			return r
		}
	}
	return nil
}

func (s *Service) findByID(rentalID string) *Rental {
	for _, r := range s.rentals {
		if r.ID == rentalID {
			return r
		}
	}
	return nil
}

// persist records the rental in the history store and snapshots the
// aggregate state. Both are best-effort.
func (s *Service) persist(ctx context.Context, rental *Rental) {
	if err := s.history.SaveRental(ctx, rental); err != nil {
		logger.WithContext(ctx).Warn("failed to record rental history",
			zap.String("rental_id", rental.ID), zap.Error(err))
	}
	s.persistSnapshot(ctx)
}

func (s *Service) persistSnapshot(ctx context.Context) {
	if err := s.snapshots.Save(ctx, s.buildSnapshot()); err != nil {
		logger.WithContext(ctx).Warn("failed to save state snapshot", zap.Error(err))
	}
}

// foldTelemetry applies a parsed status line to the rental and its
// vehicle. Values a healthy motion process could never emit are treated
// as telemetry faults.
func foldTelemetry(rental *Rental, status simulator.Status) error {
	if err := rental.Vehicle.SetBatteryLevel(status.Battery); err != nil {
		return &simulator.TelemetryError{Reason: "battery out of range", Err: err}
	}
	rental.Vehicle.Location = status.Location()
	if err := rental.UpdateUsage(status.Distance); err != nil {
		return &simulator.TelemetryError{Reason: "invalid traveled distance", Err: err}
	}
	return nil
}

// parseLocation splits a "x,y" location into grid coordinates.
func parseLocation(location string) (int, int, error) {
	parts := strings.SplitN(location, ",", 2)
	if len(parts) != 2 {
		return 0, 0, &simulator.TelemetryError{Reason: "location is not x,y"}
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}
