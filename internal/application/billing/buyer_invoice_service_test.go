package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tradeyard/backend/internal/domain/audit"
	"github.com/tradeyard/backend/internal/domain/billing"
	"github.com/tradeyard/backend/internal/domain/cashflow"
	"github.com/tradeyard/backend/internal/domain/entry"
	"github.com/tradeyard/backend/internal/domain/partner"
)

var testActor = audit.Actor{ID: uuid.New(), Name: "clerk"}

func newRecorder() *MockAuditRecorder {
	auditor := new(MockAuditRecorder)
	auditor.On("Record", mock.Anything, mock.Anything).Return()
	return auditor
}

type buyerInvoiceFixture struct {
	svc         *BuyerInvoiceService
	invoiceRepo *MockBuyerInvoiceRepository
	entryRepo   *MockEntryRepository
	buyerRepo   *MockBuyerRepository
	txnRepo     *MockTransactionRepository
}

func newBuyerInvoiceFixture() *buyerInvoiceFixture {
	f := &buyerInvoiceFixture{
		invoiceRepo: new(MockBuyerInvoiceRepository),
		entryRepo:   new(MockEntryRepository),
		buyerRepo:   new(MockBuyerRepository),
		txnRepo:     new(MockTransactionRepository),
	}
	f.svc = NewBuyerInvoiceService(f.invoiceRepo, f.entryRepo, f.buyerRepo, f.txnRepo, newRecorder())
	return f
}

// soldEntry builds an entry with one item auctioned to the buyer for 1000
func soldEntry(t *testing.T, buyerID uuid.UUID) *entry.Entry {
	t.Helper()
	item := entry.NewEntryItem(uuid.Nil, uuid.New(), "Tomatoes", decimal.NewFromInt(10))
	item.BuyerID = &buyerID
	item.RatePerQuantity = decimal.NewFromInt(100)
	item.Recalculate()

	e, err := entry.NewEntry(uuid.New(), "0601-001", time.Now(), []entry.EntryItem{item})
	require.NoError(t, err)
	return e
}

func testBuyer(t *testing.T) *partner.Buyer {
	t.Helper()
	buyer, err := partner.NewBuyer("Ravi Traders", "", "")
	require.NoError(t, err)
	return buyer
}

func TestBuyerInvoiceCreate(t *testing.T) {
	t.Run("charges the buyer and links the consumed items", func(t *testing.T) {
		f := newBuyerInvoiceFixture()
		buyer := testBuyer(t)
		e := soldEntry(t, buyer.ID)

		f.buyerRepo.On("FindByID", mock.Anything, buyer.ID).Return(buyer, nil)
		f.invoiceRepo.On("CountByDate", mock.Anything, mock.Anything).Return(int64(0), nil)
		f.entryRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]entry.Entry{*e}, nil)
		f.invoiceRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		f.buyerRepo.On("SaveWithLock", mock.Anything, buyer).Return(nil)
		f.entryRepo.On("SaveWithLock", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.svc.Create(context.Background(), testActor, CreateBuyerInvoiceRequest{
			BuyerID: buyer.ID,
			Items:   []BuyerInvoiceItemInput{{EntryID: e.ID, EntryItemID: e.Items[0].ID}},
		})
		require.NoError(t, err)

		assert.True(t, resp.NettAmount.Equal(decimal.NewFromInt(1000)))
		assert.True(t, buyer.Outstanding.Equal(decimal.NewFromInt(1000)))
		assert.True(t, resp.PaidAmount.IsZero())
		f.invoiceRepo.AssertExpectations(t)
	})

	t.Run("initial payment settles the invoice and the buyer", func(t *testing.T) {
		f := newBuyerInvoiceFixture()
		buyer := testBuyer(t)
		e := soldEntry(t, buyer.ID)

		f.buyerRepo.On("FindByID", mock.Anything, buyer.ID).Return(buyer, nil)
		f.invoiceRepo.On("CountByDate", mock.Anything, mock.Anything).Return(int64(0), nil)
		f.entryRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]entry.Entry{*e}, nil)
		f.invoiceRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		f.txnRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		f.buyerRepo.On("SaveWithLock", mock.Anything, buyer).Return(nil)
		f.invoiceRepo.On("SaveWithLock", mock.Anything, mock.Anything).Return(nil)
		f.entryRepo.On("SaveWithLock", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.svc.Create(context.Background(), testActor, CreateBuyerInvoiceRequest{
			BuyerID:  buyer.ID,
			Items:    []BuyerInvoiceItemInput{{EntryID: e.ID, EntryItemID: e.Items[0].ID}},
			Payments: []PaymentInput{{Amount: decimal.NewFromInt(1000), Method: "Cash"}},
		})
		require.NoError(t, err)

		assert.True(t, resp.PaidAmount.Equal(decimal.NewFromInt(1000)))
		assert.True(t, buyer.Outstanding.IsZero(), "charge and payment cancel out")
		f.txnRepo.AssertNumberOfCalls(t, "Save", 1)
	})
}

func TestBuyerInvoiceDelete(t *testing.T) {
	makeInvoice := func(t *testing.T, buyerID uuid.UUID, e *entry.Entry) *billing.BuyerInvoice {
		t.Helper()
		inv, err := billing.NewBuyerInvoice("BI-202506001-001", buyerID, []billing.BuyerInvoiceItem{{
			ID:          uuid.New(),
			EntryID:     e.ID,
			EntryItemID: e.Items[0].ID,
			SubTotal:    decimal.NewFromInt(1000),
		}}, decimal.Zero, decimal.Zero, decimal.Zero, time.Time{})
		require.NoError(t, err)
		return inv
	}

	t.Run("create then delete conserves the buyer balance", func(t *testing.T) {
		f := newBuyerInvoiceFixture()
		buyer := testBuyer(t)
		e := soldEntry(t, buyer.ID)
		inv := makeInvoice(t, buyer.ID, e)

		// balance as it stands after creation
		require.NoError(t, buyer.Charge(inv.NettAmount))

		f.invoiceRepo.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
		f.buyerRepo.On("FindByID", mock.Anything, buyer.ID).Return(buyer, nil)
		f.txnRepo.On("FindByRelatedInvoice", mock.Anything, inv.ID).Return([]cashflow.Transaction{}, nil)
		f.buyerRepo.On("SaveWithLock", mock.Anything, buyer).Return(nil)
		f.entryRepo.On("FindByID", mock.Anything, e.ID).Return(e, nil)
		f.entryRepo.On("SaveWithLock", mock.Anything, e).Return(nil)
		f.invoiceRepo.On("Delete", mock.Anything, inv.ID).Return(nil)

		require.NoError(t, f.svc.Delete(context.Background(), testActor, inv.ID))
		assert.True(t, buyer.Outstanding.IsZero())
	})

	t.Run("ordinary payments are deleted and their effect reversed", func(t *testing.T) {
		f := newBuyerInvoiceFixture()
		buyer := testBuyer(t)
		e := soldEntry(t, buyer.ID)
		inv := makeInvoice(t, buyer.ID, e)
		require.NoError(t, inv.RecordPayment(decimal.NewFromInt(1000)))

		// after create + full payment the buyer balance is back at zero
		buyerID := buyer.ID
		payment, err := cashflow.NewTransaction(time.Now(), cashflow.TypeIncome, "", &buyerID, buyer.BuyerName,
			decimal.NewFromInt(1000), decimal.Zero, cashflow.MethodCash, "", "", "", nil, cashflow.UUIDList{inv.ID})
		require.NoError(t, err)

		f.invoiceRepo.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
		f.buyerRepo.On("FindByID", mock.Anything, buyer.ID).Return(buyer, nil)
		f.txnRepo.On("FindByRelatedInvoice", mock.Anything, inv.ID).Return([]cashflow.Transaction{*payment}, nil)
		f.txnRepo.On("Delete", mock.Anything, payment.ID).Return(nil)
		f.buyerRepo.On("SaveWithLock", mock.Anything, buyer).Return(nil)
		f.entryRepo.On("FindByID", mock.Anything, e.ID).Return(e, nil)
		f.entryRepo.On("SaveWithLock", mock.Anything, e).Return(nil)
		f.invoiceRepo.On("Delete", mock.Anything, inv.ID).Return(nil)

		require.NoError(t, f.svc.Delete(context.Background(), testActor, inv.ID))

		// invoice revert (-1000) and payment reversal (+1000) net to zero
		assert.True(t, buyer.Outstanding.IsZero())
		f.txnRepo.AssertCalled(t, "Delete", mock.Anything, payment.ID)
	})

	t.Run("advance payments are unlinked and stand as credit", func(t *testing.T) {
		f := newBuyerInvoiceFixture()
		buyer := testBuyer(t)
		e := soldEntry(t, buyer.ID)
		inv := makeInvoice(t, buyer.ID, e)
		require.NoError(t, buyer.Charge(inv.NettAmount))

		buyerID := buyer.ID
		advance, err := cashflow.NewTransaction(time.Now(), cashflow.TypeIncome, cashflow.CategoryAdvancePayment,
			&buyerID, buyer.BuyerName, decimal.NewFromInt(300), decimal.Zero, cashflow.MethodCash, "", "", "",
			nil, cashflow.UUIDList{inv.ID})
		require.NoError(t, err)

		f.invoiceRepo.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
		f.buyerRepo.On("FindByID", mock.Anything, buyer.ID).Return(buyer, nil)
		f.txnRepo.On("FindByRelatedInvoice", mock.Anything, inv.ID).Return([]cashflow.Transaction{*advance}, nil)
		f.txnRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		f.buyerRepo.On("SaveWithLock", mock.Anything, buyer).Return(nil)
		f.entryRepo.On("FindByID", mock.Anything, e.ID).Return(e, nil)
		f.entryRepo.On("SaveWithLock", mock.Anything, e).Return(nil)
		f.invoiceRepo.On("Delete", mock.Anything, inv.ID).Return(nil)

		require.NoError(t, f.svc.Delete(context.Background(), testActor, inv.ID))

		f.txnRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		assert.True(t, buyer.Outstanding.IsZero(), "only the invoice charge is reverted")
	})
}

func TestBuyerInvoiceUpdate(t *testing.T) {
	t.Run("rebills against a different buyer", func(t *testing.T) {
		f := newBuyerInvoiceFixture()
		oldBuyer := testBuyer(t)
		newBuyer, err := partner.NewBuyer("Kumar & Sons", "", "")
		require.NoError(t, err)

		e := soldEntry(t, newBuyer.ID)
		inv, err := billing.NewBuyerInvoice("BI-202506001-001", oldBuyer.ID, []billing.BuyerInvoiceItem{{
			ID:          uuid.New(),
			EntryID:     e.ID,
			EntryItemID: e.Items[0].ID,
			SubTotal:    decimal.NewFromInt(800),
		}}, decimal.Zero, decimal.Zero, decimal.Zero, time.Time{})
		require.NoError(t, err)
		require.NoError(t, oldBuyer.Charge(inv.NettAmount))

		f.invoiceRepo.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
		f.buyerRepo.On("FindByID", mock.Anything, oldBuyer.ID).Return(oldBuyer, nil)
		f.buyerRepo.On("FindByID", mock.Anything, newBuyer.ID).Return(newBuyer, nil)
		f.entryRepo.On("FindByID", mock.Anything, e.ID).Return(e, nil)
		f.entryRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]entry.Entry{*e}, nil)
		f.entryRepo.On("SaveWithLock", mock.Anything, mock.Anything).Return(nil)
		f.buyerRepo.On("SaveWithLock", mock.Anything, mock.Anything).Return(nil)
		f.invoiceRepo.On("SaveWithLock", mock.Anything, inv).Return(nil)

		resp, err := f.svc.Update(context.Background(), testActor, inv.ID, UpdateBuyerInvoiceRequest{
			BuyerID: newBuyer.ID,
			Items:   []BuyerInvoiceItemInput{{EntryID: e.ID, EntryItemID: e.Items[0].ID}},
		})
		require.NoError(t, err)

		assert.True(t, oldBuyer.Outstanding.IsZero(), "old buyer fully reverted")
		assert.True(t, newBuyer.Outstanding.Equal(decimal.NewFromInt(1000)), "new buyer charged the recomputed nett")
		assert.Equal(t, newBuyer.ID, resp.BuyerID)
	})
}
