package partner

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuyerBalance(t *testing.T) {
	buyer, err := NewBuyer("Ravi Traders", "9876500000", "Market Road")
	require.NoError(t, err)

	require.NoError(t, buyer.Charge(decimal.NewFromInt(1000)))
	require.NoError(t, buyer.Credit(decimal.NewFromInt(400)))
	assert.True(t, buyer.Outstanding.Equal(decimal.NewFromInt(600)))
	assert.True(t, buyer.HasOutstanding())

	t.Run("may go negative on overpayment", func(t *testing.T) {
		require.NoError(t, buyer.Credit(decimal.NewFromInt(1000)))
		assert.True(t, buyer.Outstanding.Equal(decimal.NewFromInt(-400)))
	})

	t.Run("rejects negative movements", func(t *testing.T) {
		assert.Error(t, buyer.Charge(decimal.NewFromInt(-1)))
		assert.Error(t, buyer.Credit(decimal.NewFromInt(-1)))
	})
}

func TestSupplierBalance(t *testing.T) {
	supplier, err := NewSupplier("Green Farms", "", "")
	require.NoError(t, err)

	// settling an invoice moves the signed balance down: we owe the supplier
	require.NoError(t, supplier.AddPayable(decimal.NewFromInt(930)))
	assert.True(t, supplier.Outstanding.Equal(decimal.NewFromInt(-930)))

	require.NoError(t, supplier.SettlePayable(decimal.NewFromInt(930)))
	assert.True(t, supplier.Outstanding.IsZero())
	assert.False(t, supplier.HasOutstanding())
}

func TestNewPartnerValidation(t *testing.T) {
	_, err := NewBuyer("", "", "")
	assert.Error(t, err)

	_, err = NewSupplier("", "", "")
	assert.Error(t, err)
}
