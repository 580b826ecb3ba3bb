package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settledEntry() SupplierInvoiceEntry {
	return SupplierInvoiceEntry{ID: uuid.New(), EntryID: uuid.New(), EntrySerialNumber: "0601-001"}
}

func settledItem(subTotal float64) SupplierInvoiceItem {
	return SupplierInvoiceItem{
		ID:              uuid.New(),
		ProductID:       uuid.New(),
		ProductName:     "Potatoes",
		Quantity:        decimal.NewFromInt(10),
		RatePerQuantity: decimal.NewFromFloat(subTotal / 10),
		SubTotal:        decimal.NewFromFloat(subTotal),
	}
}

func newInvoice(t *testing.T, items []SupplierInvoiceItem, commissionRate, wages, adjustments, advance decimal.Decimal) *SupplierInvoice {
	t.Helper()
	inv, err := NewSupplierInvoice("SI-202506001-001", uuid.New(),
		[]SupplierInvoiceEntry{settledEntry()}, items,
		commissionRate, wages, adjustments, advance, time.Time{})
	require.NoError(t, err)
	return inv
}

func TestNewSupplierInvoice(t *testing.T) {
	t.Run("commission always rounds up", func(t *testing.T) {
		inv := newInvoice(t, []SupplierInvoiceItem{settledItem(999)},
			decimal.NewFromInt(10), decimal.Zero, decimal.Zero, decimal.Zero)

		assert.True(t, inv.GrossTotal.Equal(decimal.NewFromInt(999)))
		assert.True(t, inv.CommissionAmount.Equal(decimal.NewFromInt(100)), "ceil(99.9), never 99")
		assert.True(t, inv.NettAmount.Equal(decimal.NewFromInt(899)))
	})

	t.Run("gross rounds the item sum to whole units", func(t *testing.T) {
		inv := newInvoice(t, []SupplierInvoiceItem{settledItem(500.4), settledItem(200.2)},
			decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero)

		assert.True(t, inv.GrossTotal.Equal(decimal.NewFromInt(701)), "round(700.6)")
	})

	t.Run("nett and final payable", func(t *testing.T) {
		inv := newInvoice(t, []SupplierInvoiceItem{settledItem(1000)},
			decimal.NewFromInt(5), decimal.NewFromInt(30), decimal.NewFromInt(10), decimal.NewFromInt(200))

		// gross 1000, commission ceil(50)=50, nett 1000-50-30+10=930
		assert.True(t, inv.NettAmount.Equal(decimal.NewFromInt(930)))
		assert.True(t, inv.FinalPayable.Equal(decimal.NewFromInt(730)))
		assert.True(t, inv.PaidAmount.Equal(decimal.NewFromInt(200)), "advance seeds the paid amount")
		assert.Equal(t, StatusUnpaid, inv.Status, "a fresh invoice is Unpaid even with an advance")
	})

	t.Run("rejects empty entry list", func(t *testing.T) {
		_, err := NewSupplierInvoice("SI-202506001-001", uuid.New(), nil, nil,
			decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, time.Time{})
		assert.Error(t, err)
	})

	t.Run("rejects negative commission rate", func(t *testing.T) {
		_, err := NewSupplierInvoice("SI-202506001-001", uuid.New(),
			[]SupplierInvoiceEntry{settledEntry()}, nil,
			decimal.NewFromInt(-1), decimal.Zero, decimal.Zero, decimal.Zero, time.Time{})
		assert.Error(t, err)
	})
}

func TestApplyPayment(t *testing.T) {
	t.Run("partial then full settlement", func(t *testing.T) {
		inv := newInvoice(t, []SupplierInvoiceItem{settledItem(1000)},
			decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero)

		require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(400)))
		assert.Equal(t, StatusPartiallyPaid, inv.Status)
		assert.True(t, inv.RemainingBalance().Equal(decimal.NewFromInt(600)))

		require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(600)))
		assert.Equal(t, StatusPaid, inv.Status)
	})

	t.Run("zero nett invoice settles once the paid amount covers it", func(t *testing.T) {
		// gross 100, wages 100, nett 0: nothing is owed, so any
		// settlement pass marks it Paid
		inv := newInvoice(t, []SupplierInvoiceItem{settledItem(100)},
			decimal.Zero, decimal.NewFromInt(100), decimal.Zero, decimal.Zero)
		require.True(t, inv.NettAmount.IsZero())

		require.NoError(t, inv.ApplyPayment(decimal.Zero))
		assert.Equal(t, StatusPaid, inv.Status)
	})

	t.Run("rejects negative payment", func(t *testing.T) {
		inv := newInvoice(t, []SupplierInvoiceItem{settledItem(1000)},
			decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero)
		assert.Error(t, inv.ApplyPayment(decimal.NewFromInt(-5)))
	})
}
