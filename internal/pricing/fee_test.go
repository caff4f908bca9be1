package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedStrategy struct {
	cost float64
}

func (s fixedStrategy) Calculate(Usage) float64 { return s.cost }
func (s fixedStrategy) Name() string            { return "fixed" }

func TestCalculateFinalFee_DiscountChain(t *testing.T) {
	available := []DiscountSpec{
		CardDiscount("Hyundai Card", 0.10),
		CouponDiscount("WELCOME5", 0.05),
	}

	fee, err := CalculateFinalFee(fixedStrategy{cost: 10000}, Usage{}, available, []int{0, 1})
	require.NoError(t, err)

	// 10000 * 0.90 * 0.95
	assert.InDelta(t, 8550, fee.FinalCost(), 0.001)
	assert.Equal(t, "coupon discount (WELCOME5)", fee.DisplayName())
}

func TestCalculateFinalFee_InvalidBaseCost(t *testing.T) {
	tests := []struct {
		name string
		cost float64
	}{
		{name: "negative", cost: -1},
		{name: "negative large", cost: -10000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CalculateFinalFee(fixedStrategy{cost: tt.cost}, Usage{}, nil, nil)
			assert.ErrorIs(t, err, ErrInvalidFee)
		})
	}
}

func TestCalculateFinalFee_OutOfRangeIndexesIgnored(t *testing.T) {
	available := []DiscountSpec{CardDiscount("Samsung Card", 0.05)}

	fee, err := CalculateFinalFee(fixedStrategy{cost: 1000}, Usage{}, available, []int{-1, 5, 0, 99})
	require.NoError(t, err)

	// Only index 0 applies.
	assert.InDelta(t, 950, fee.FinalCost(), 0.001)
}

func TestFeeChain_MonotonicNonIncreasing(t *testing.T) {
	rates := []float64{0, 0.05, 0.10, 0.33, 0.5, 1.0}

	available := make([]DiscountSpec, 0, len(rates))
	selected := make([]int, 0, len(rates))
	for i, rate := range rates {
		available = append(available, CouponDiscount("C", rate))
		selected = append(selected, i)
	}

	prev := 12345.0
	for n := 1; n <= len(selected); n++ {
		fee, err := CalculateFinalFee(fixedStrategy{cost: 12345}, Usage{}, available, selected[:n])
		require.NoError(t, err)

		cost := fee.FinalCost()
		assert.LessOrEqual(t, cost, prev, "cost must not increase as discounts apply")
		assert.GreaterOrEqual(t, cost, 0.0, "cost must never go negative")
		prev = cost
	}
}

func TestNewBaseFee(t *testing.T) {
	_, err := NewBaseFee(-0.01)
	assert.ErrorIs(t, err, ErrInvalidFee)

	fee, err := NewBaseFee(0)
	assert.NoError(t, err)
	assert.Zero(t, fee.FinalCost())
}

func TestDistanceStrategy(t *testing.T) {
	tests := []struct {
		name     string
		rate     float64
		distance float64
		expected float64
	}{
		{name: "three kilometers", rate: 200, distance: 3.0, expected: 600},
		{name: "zero distance", rate: 200, distance: 0, expected: 0},
		{name: "fractional distance", rate: 150, distance: 1.5, expected: 225},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewDistanceStrategy(tt.rate)
			got := s.Calculate(Usage{Distance: tt.distance})
			assert.InDelta(t, tt.expected, got, 0.001)
		})
	}
}

func TestTimeStrategy(t *testing.T) {
	start := time.Date(2025, 11, 20, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		end      *time.Time
		now      time.Time
		expected float64
	}{
		{
			name:     "closed rental charges whole elapsed minutes",
			end:      timePtr(start.Add(12*time.Minute + 30*time.Second)),
			expected: 2400,
		},
		{
			name:     "open rental charges up to now",
			now:      start.Add(5 * time.Minute),
			expected: 1000,
		},
		{
			name:     "end before start charges nothing",
			end:      timePtr(start.Add(-time.Minute)),
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewTimeStrategy(200)
			if !tt.now.IsZero() {
				s.now = func() time.Time { return tt.now }
			}
			got := s.Calculate(Usage{StartTime: start, EndTime: tt.end})
			assert.InDelta(t, tt.expected, got, 0.001)
		})
	}
}

func timePtr(t time.Time) *time.Time { return &t }
