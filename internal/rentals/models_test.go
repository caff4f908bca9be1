package rentals

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/choiby7/kickboard-rental-service/internal/users"
	"github.com/choiby7/kickboard-rental-service/internal/vehicles"
)

func newTestRental(t *testing.T) *Rental {
	t.Helper()
	v, err := vehicles.NewVehicle("KB001", "Model S", "5,5", 85)
	require.NoError(t, err)
	return NewRental(&users.User{ID: "rider-001"}, v, time.Now())
}

func TestNewRental(t *testing.T) {
	r := newTestRental(t)

	assert.True(t, strings.HasPrefix(r.ID, "RNT-"))
	assert.Equal(t, StatusActive, r.Status)
	assert.Nil(t, r.EndTime)
	assert.Zero(t, r.Usage.Distance)
	assert.Equal(t, r.StartTime, r.Usage.StartTime)
}

func TestRental_CompleteIsIdempotent(t *testing.T) {
	r := newTestRental(t)

	r.Complete(2.5)
	require.Equal(t, StatusCompleted, r.Status)
	require.NotNil(t, r.EndTime)
	firstEnd := *r.EndTime
	assert.InDelta(t, 2.5, r.Usage.Distance, 0.001)

	// A second completion changes nothing.
	r.Complete(99)
	assert.Equal(t, StatusCompleted, r.Status)
	assert.Equal(t, firstEnd, *r.EndTime)
	assert.InDelta(t, 2.5, r.Usage.Distance, 0.001)
}

func TestRental_RevertComplete(t *testing.T) {
	r := newTestRental(t)
	require.NoError(t, r.UpdateUsage(3.0))

	r.Complete(3.0)
	r.RevertComplete()

	assert.Equal(t, StatusActive, r.Status)
	assert.Nil(t, r.EndTime)
	assert.Nil(t, r.Usage.EndTime)
	assert.InDelta(t, 3.0, r.Usage.Distance, 0.001, "telemetry survives the rollback")

	// Reverting an ACTIVE rental is a no-op.
	r.RevertComplete()
	assert.Equal(t, StatusActive, r.Status)
}

func TestRental_UpdateUsage(t *testing.T) {
	r := newTestRental(t)

	require.NoError(t, r.UpdateUsage(1.2))
	assert.InDelta(t, 1.2, r.Usage.Distance, 0.001)

	assert.Error(t, r.UpdateUsage(-0.1))
	assert.InDelta(t, 1.2, r.Usage.Distance, 0.001, "rejected update leaves the record untouched")
}

func TestNewUsageRecord_RejectsNegativeDistance(t *testing.T) {
	_, err := NewUsageRecord(time.Now(), nil, -1)
	assert.Error(t, err)
}
