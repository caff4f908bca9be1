package pricing

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidFee marks a base cost that is not a well-defined non-negative
// value; no discount may be considered on top of one.
var ErrInvalidFee = errors.New("base cost must be a non-negative value")

// Usage is the closed usage data the fee pipeline consumes.
type Usage struct {
	StartTime time.Time
	EndTime   *time.Time
	Distance  float64
}

// Fee exposes the settle amount and a display label for the outermost
// component of a fee chain.
type Fee interface {
	FinalCost() float64
	DisplayName() string
}

// BaseFee wraps the strategy-computed base cost.
type BaseFee struct {
	amount float64
}

// NewBaseFee validates and wraps a base cost.
func NewBaseFee(amount float64) (BaseFee, error) {
	if math.IsNaN(amount) || amount < 0 {
		return BaseFee{}, ErrInvalidFee
	}
	return BaseFee{amount: amount}, nil
}

func (f BaseFee) FinalCost() float64 {
	return f.amount
}

func (f BaseFee) DisplayName() string {
	return "base fare"
}

// DiscountKind tags the origin of a discount spec.
type DiscountKind string

const (
	KindCard     DiscountKind = "card"
	KindCoupon   DiscountKind = "coupon"
	KindDistance DiscountKind = "distance"
)

// DiscountSpec is a percentage-of-current-cost discount. Specs are plain
// tagged values folded over a BaseFee, replacing the reflective decorator
// rebuild of earlier designs.
type DiscountSpec struct {
	Kind        DiscountKind `json:"kind"`
	Label       string       `json:"label"`
	Rate        float64      `json:"rate"`
	CouponID    string       `json:"coupon_id,omitempty"`
	ThresholdKm float64      `json:"threshold_km,omitempty"`
}

// CardDiscount builds a card-company discount spec.
func CardDiscount(company string, rate float64) DiscountSpec {
	return DiscountSpec{
		Kind:  KindCard,
		Label: fmt.Sprintf("card discount (%s)", company),
		Rate:  rate,
	}
}

// CouponDiscount builds a coupon discount spec.
func CouponDiscount(couponID string, rate float64) DiscountSpec {
	return DiscountSpec{
		Kind:     KindCoupon,
		Label:    fmt.Sprintf("coupon discount (%s)", couponID),
		Rate:     rate,
		CouponID: couponID,
	}
}

// DistanceDiscount builds a distance-threshold discount spec.
func DistanceDiscount(thresholdKm, rate float64) DiscountSpec {
	return DiscountSpec{
		Kind:        KindDistance,
		Label:       fmt.Sprintf("distance discount (>=%.1fkm, %.0f%%)", thresholdKm, rate*100),
		Rate:        rate,
		ThresholdKm: thresholdKm,
	}
}

// discountedFee applies one spec on top of an inner fee.
type discountedFee struct {
	inner Fee
	spec  DiscountSpec
}

func (f discountedFee) FinalCost() float64 {
	return f.inner.FinalCost() * (1 - f.spec.Rate)
}

func (f discountedFee) DisplayName() string {
	return f.spec.Label
}

// CalculateFinalFee runs the fee pipeline: compute the base cost with
// the strategy, wrap it in a BaseFee, then fold the discounts at the
// selected indexes over it in the order given. Out-of-range indexes are
// skipped, not errors; the indexes originate from a pre-validated
// available-discount list.
func CalculateFinalFee(strategy Strategy, usage Usage, available []DiscountSpec, selected []int) (Fee, error) {
	base := strategy.Calculate(usage)

	fee, err := NewBaseFee(base)
	if err != nil {
		return nil, fmt.Errorf("%w: strategy %s returned %v", ErrInvalidFee, strategy.Name(), base)
	}

	var chain Fee = fee
	for _, idx := range selected {
		if idx < 0 || idx >= len(available) {
			continue
		}
		chain = discountedFee{inner: chain, spec: available[idx]}
	}
	return chain, nil
}
