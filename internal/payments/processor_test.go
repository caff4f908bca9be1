package payments

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInstrument(balance float64) *Instrument {
	return &Instrument{Number: "1234-5678", CVC: "123", Alias: "Personal Card", Balance: balance}
}

func TestProcessor_Process_Success(t *testing.T) {
	p := NewProcessor()
	instrument := testInstrument(50000)

	payment, ok, err := p.Process("RNT-1", instrument, 8550)
	require.NoError(t, err)

	assert.True(t, ok)
	assert.Equal(t, StatusSuccess, payment.Status)
	assert.InDelta(t, 8550, payment.Amount, 0.001)
	assert.InDelta(t, 41450, instrument.Balance, 0.001)
	assert.Equal(t, "Personal Card", payment.Alias)
	assert.False(t, payment.TransactionAt.IsZero())
}

func TestProcessor_Process_InsufficientBalance(t *testing.T) {
	p := NewProcessor()
	instrument := testInstrument(1000)

	payment, ok, err := p.Process("RNT-1", instrument, 8550)
	require.NoError(t, err)

	assert.False(t, ok)
	assert.Equal(t, StatusFailed, payment.Status)
	assert.InDelta(t, 1000, instrument.Balance, 0.001, "declined payment must not touch the balance")
	assert.False(t, payment.TransactionAt.IsZero(), "failed attempts are timestamped too")
}

func TestProcessor_Process_ValidationErrors(t *testing.T) {
	p := NewProcessor()

	tests := []struct {
		name       string
		instrument *Instrument
		amount     float64
		wantErr    error
	}{
		{name: "negative amount", instrument: testInstrument(100), amount: -1, wantErr: ErrAmountNotSet},
		{name: "nan amount", instrument: testInstrument(100), amount: math.NaN(), wantErr: ErrAmountNotSet},
		{name: "nil instrument", instrument: nil, amount: 100, wantErr: ErrMissingCredentials},
		{
			name:       "missing cvc",
			instrument: &Instrument{Number: "1234", Alias: "Broken", Balance: 100},
			amount:     100,
			wantErr:    ErrMissingCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payment, ok, err := p.Process("RNT-1", tt.instrument, tt.amount)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.False(t, ok)
			assert.Nil(t, payment)
		})
	}
}

func TestProcessor_Process_ZeroAmount(t *testing.T) {
	p := NewProcessor()
	instrument := testInstrument(1000)

	payment, ok, err := p.Process("RNT-1", instrument, 0)
	require.NoError(t, err)

	assert.True(t, ok)
	assert.Equal(t, StatusSuccess, payment.Status)
	assert.InDelta(t, 1000, instrument.Balance, 0.001)
}
