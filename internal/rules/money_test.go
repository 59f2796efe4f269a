package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	tests := []struct {
		name    string
		amount  int64
		curr    string
		wantErr bool
	}{
		{"zero", 0, "TRY", false},
		{"positive", 12345, "TRY", false},
		{"negative", -1, "TRY", true},
		{"missing currency", 100, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMoney(tt.amount, tt.curr)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.amount, m.AmountMinor)
			assert.Equal(t, tt.curr, m.Currency)
		})
	}
}

func TestMoneyAddRejectsCurrencyMismatch(t *testing.T) {
	try, _ := NewMoney(100, "TRY")
	usd, _ := NewMoney(100, "USD")
	_, err := try.Add(usd)
	re, ok := AsRuleError(err)
	require.True(t, ok)
	assert.Equal(t, CodeCurrencyMismatch, re.Code)
}

func TestMoneyMulQty(t *testing.T) {
	m, _ := NewMoney(2500, "TRY")
	got, err := m.MulQty(3)
	require.NoError(t, err)
	assert.Equal(t, int64(7500), got.AmountMinor)

	_, err = m.MulQty(-1)
	require.Error(t, err)
}

func TestSumMoneyEmptyIsZero(t *testing.T) {
	total, err := SumMoney("TRY")
	require.NoError(t, err)
	assert.Equal(t, ZeroMoney("TRY"), total)
}
