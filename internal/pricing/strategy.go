package pricing

import "time"

// Strategy computes a base cost from a rental's usage record.
type Strategy interface {
	Calculate(usage Usage) float64
	Name() string
}

// TimeStrategy charges per started-elapsed minute. Open rentals are
// charged up to now.
type TimeStrategy struct {
	RatePerMinute float64
	now           func() time.Time
}

// NewTimeStrategy creates a time-based strategy with the given
// per-minute rate.
func NewTimeStrategy(ratePerMinute float64) *TimeStrategy {
	return &TimeStrategy{RatePerMinute: ratePerMinute, now: time.Now}
}

func (s *TimeStrategy) Calculate(usage Usage) float64 {
	end := s.now()
	if usage.EndTime != nil {
		end = *usage.EndTime
	}
	minutes := end.Sub(usage.StartTime) / time.Minute
	if minutes < 0 {
		minutes = 0
	}
	return s.RatePerMinute * float64(minutes)
}

func (s *TimeStrategy) Name() string {
	return "Time-based"
}

// DistanceStrategy charges per distance unit traveled.
type DistanceStrategy struct {
	RatePerKm float64
}

// NewDistanceStrategy creates a distance-based strategy.
func NewDistanceStrategy(ratePerKm float64) *DistanceStrategy {
	return &DistanceStrategy{RatePerKm: ratePerKm}
}

func (s *DistanceStrategy) Calculate(usage Usage) float64 {
	return s.RatePerKm * usage.Distance
}

func (s *DistanceStrategy) Name() string {
	return "Distance-based"
}
