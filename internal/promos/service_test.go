package promos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/choiby7/kickboard-rental-service/internal/pricing"
	"github.com/choiby7/kickboard-rental-service/internal/users"
)

func testUserWithCoupon(t *testing.T) (*users.Store, *users.User) {
	t.Helper()
	store := users.NewStore()
	u := &users.User{ID: "rider-001"}
	store.Add(u)
	require.NoError(t, store.AddCoupon("rider-001", "WELCOME5", 0.05))
	return store, u
}

func TestAvailableDiscounts_AssemblyOrder(t *testing.T) {
	store, u := testUserWithCoupon(t)
	svc := NewService(nil, store)

	specs := svc.AvailableDiscounts(u, 2.5)
	require.Len(t, specs, 5)

	// Cards first, in table order.
	assert.Equal(t, pricing.KindCard, specs[0].Kind)
	assert.Contains(t, specs[0].Label, "Hyundai Card")
	assert.InDelta(t, 0.10, specs[0].Rate, 0.0001)
	assert.Contains(t, specs[1].Label, "Samsung Card")

	// Then held coupons.
	assert.Equal(t, pricing.KindCoupon, specs[2].Kind)
	assert.Equal(t, "WELCOME5", specs[2].CouponID)

	// Then every crossed distance threshold, both stacking.
	assert.Equal(t, pricing.KindDistance, specs[3].Kind)
	assert.InDelta(t, 1.5, specs[3].ThresholdKm, 0.0001)
	assert.Equal(t, pricing.KindDistance, specs[4].Kind)
	assert.InDelta(t, 2.0, specs[4].ThresholdKm, 0.0001)
}

func TestAvailableDiscounts_DistanceThresholds(t *testing.T) {
	store := users.NewStore()
	svc := NewService([]CardDiscount{}, store)

	tests := []struct {
		name     string
		distance float64
		count    int
	}{
		{name: "below both", distance: 1.0, count: 0},
		{name: "past first only", distance: 1.5, count: 1},
		{name: "past both", distance: 2.0, count: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			specs := svc.AvailableDiscounts(nil, tt.distance)
			assert.Len(t, specs, tt.count)
		})
	}
}

func TestConsumeCoupons_SelectedOnly(t *testing.T) {
	store, u := testUserWithCoupon(t)
	require.NoError(t, store.AddCoupon("rider-001", "SPRING10", 0.10))
	svc := NewService(nil, store)

	available := svc.AvailableDiscounts(u, 0)
	require.Len(t, available, 4) // two cards, two coupons

	// Select one card and one coupon; only the coupon is consumed, and
	// only the selected one.
	svc.ConsumeCoupons(u, available, []int{0, 3})

	_, held := u.Coupons["SPRING10"]
	assert.True(t, held, "unselected coupon stays in the wallet")
	_, held = u.Coupons["WELCOME5"]
	assert.False(t, held, "selected coupon is consumed")
}

func TestConsumeCoupons_IgnoresOutOfRange(t *testing.T) {
	store, u := testUserWithCoupon(t)
	svc := NewService(nil, store)

	available := svc.AvailableDiscounts(u, 0)
	svc.ConsumeCoupons(u, available, []int{-1, 42})

	_, held := u.Coupons["WELCOME5"]
	assert.True(t, held)
}
