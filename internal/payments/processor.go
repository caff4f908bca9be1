package payments

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/choiby7/kickboard-rental-service/pkg/logger"
)

// Validation failures are programming errors, not business outcomes:
// they abort the operation instead of producing a FAILED payment.
var (
	ErrAmountNotSet       = errors.New("payment amount not set")
	ErrMissingCredentials = errors.New("payment instrument credentials incomplete")
)

// Processor settles computed fees against payment instruments.
type Processor struct{}

// NewProcessor creates a payment processor.
func NewProcessor() *Processor {
	return &Processor{}
}

// Process attempts to settle amount against the instrument.
//
// It returns an error only for validation failures (unset amount,
// incomplete credentials). Insufficient balance is a business failure:
// the payment comes back with status FAILED and ok=false, the balance
// untouched. The transaction timestamp is recorded either way.
func (p *Processor) Process(rentalID string, instrument *Instrument, amount float64) (*Payment, bool, error) {
	if math.IsNaN(amount) || amount < 0 {
		return nil, false, ErrAmountNotSet
	}
	if instrument == nil || !instrument.HasCredentials() {
		return nil, false, ErrMissingCredentials
	}

	payment := &Payment{
		ID:            uuid.New().String(),
		RentalID:      rentalID,
		Alias:         instrument.Alias,
		Amount:        amount,
		TransactionAt: time.Now(),
	}

	if instrument.Balance < amount {
		payment.Status = StatusFailed
		logger.Warn("payment declined: insufficient balance",
			zap.String("rental_id", rentalID),
			zap.String("instrument", instrument.Alias),
			zap.Float64("amount", amount),
			zap.Float64("balance", instrument.Balance))
		return payment, false, nil
	}

	instrument.Balance -= amount
	payment.Status = StatusSuccess
	logger.Info("payment settled",
		zap.String("rental_id", rentalID),
		zap.String("payment_id", payment.ID),
		zap.String("instrument", instrument.Alias),
		zap.Float64("amount", amount))
	return payment, true, nil
}
