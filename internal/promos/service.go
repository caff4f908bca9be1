package promos

import (
	"go.uber.org/zap"

	"github.com/choiby7/kickboard-rental-service/internal/pricing"
	"github.com/choiby7/kickboard-rental-service/internal/users"
	"github.com/choiby7/kickboard-rental-service/pkg/logger"
)

// CardDiscount is a static card-company promotion.
type CardDiscount struct {
	Company string
	Rate    float64
}

// DefaultCardTable mirrors the launch partnership table.
var DefaultCardTable = []CardDiscount{
	{Company: "Hyundai Card", Rate: 0.10},
	{Company: "Samsung Card", Rate: 0.05},
}

// Distance thresholds are cumulative independent offers: a ride past
// both marks is offered both discounts, not just the better one.
var distanceOffers = []struct {
	thresholdKm float64
	rate        float64
}{
	{1.5, 0.05},
	{2.0, 0.10},
}

// Service assembles the promotions available to a rental and consumes
// coupons once settled.
type Service struct {
	cards []CardDiscount
	users *users.Store
}

// NewService creates a promotions service over the given card table.
func NewService(cards []CardDiscount, userStore *users.Store) *Service {
	if cards == nil {
		cards = DefaultCardTable
	}
	return &Service{cards: cards, users: userStore}
}

// AvailableDiscounts assembles the selectable discount list for a user
// and a closed traveled distance. Assembly order defines the index the
// caller selects by: card table, then held coupons, then distance
// offers.
func (s *Service) AvailableDiscounts(user *users.User, distanceKm float64) []pricing.DiscountSpec {
	var specs []pricing.DiscountSpec

	if user != nil {
		for _, card := range s.cards {
			specs = append(specs, pricing.CardDiscount(card.Company, card.Rate))
		}
		for _, coupon := range user.SortedCoupons() {
			specs = append(specs, pricing.CouponDiscount(coupon.ID, coupon.Rate))
		}
	}

	for _, offer := range distanceOffers {
		if distanceKm >= offer.thresholdKm {
			specs = append(specs, pricing.DistanceDiscount(offer.thresholdKm, offer.rate))
		}
	}

	return specs
}

// ConsumeCoupons removes the coupons at the selected indexes from the
// user's wallet after a settled payment. Non-coupon selections and
// out-of-range indexes are ignored.
func (s *Service) ConsumeCoupons(user *users.User, available []pricing.DiscountSpec, selected []int) {
	if user == nil {
		return
	}
	for _, idx := range selected {
		if idx < 0 || idx >= len(available) {
			continue
		}
		spec := available[idx]
		if spec.Kind != pricing.KindCoupon {
			continue
		}
		if s.users.RemoveCoupon(user.ID, spec.CouponID) {
			logger.Info("coupon consumed",
				zap.String("user_id", user.ID),
				zap.String("coupon_id", spec.CouponID))
		}
	}
}
