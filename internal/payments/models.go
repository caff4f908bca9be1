package payments

import "time"

// Status is the outcome of a settlement attempt.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

// Instrument is a payment instrument owned by a user: a card number and
// CVC pair with a display alias and a prepaid balance.
type Instrument struct {
	Number  string  `json:"-"`
	CVC     string  `json:"-"`
	Alias   string  `json:"alias"`
	Balance float64 `json:"balance"`
}

// HasCredentials reports whether the instrument carries a complete
// identity/credential pair.
func (i *Instrument) HasCredentials() bool {
	return i.Number != "" && i.CVC != ""
}

// Payment is a one-shot settlement record binding an instrument, an
// amount and the resulting status.
type Payment struct {
	ID            string    `json:"id"`
	RentalID      string    `json:"rental_id"`
	Alias         string    `json:"instrument_alias"`
	Amount        float64   `json:"amount"`
	Status        Status    `json:"status"`
	TransactionAt time.Time `json:"transaction_at"`
}
