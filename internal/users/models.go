package users

import (
	"sort"

	"github.com/choiby7/kickboard-rental-service/internal/payments"
)

// User holds the parts of a rider's account the rental engine consumes:
// identity, the coupon wallet and registered payment instruments.
// Registration and authentication bookkeeping live outside the engine.
type User struct {
	ID          string                 `json:"id"`
	Email       string                 `json:"email,omitempty"`
	Coupons     map[string]float64     `json:"coupons"`
	Instruments []*payments.Instrument `json:"instruments"`
}

// Coupon is a held coupon entry: id mapped to a discount rate in [0,1].
type Coupon struct {
	ID   string
	Rate float64
}

// SortedCoupons returns the coupon wallet ordered by id, so that
// index-based selection over the assembled discount list is stable.
func (u *User) SortedCoupons() []Coupon {
	out := make([]Coupon, 0, len(u.Coupons))
	for id, rate := range u.Coupons {
		out = append(out, Coupon{ID: id, Rate: rate})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
