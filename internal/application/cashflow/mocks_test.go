package cashflow

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/tradeyard/backend/internal/domain/audit"
	"github.com/tradeyard/backend/internal/domain/billing"
	"github.com/tradeyard/backend/internal/domain/cashflow"
	"github.com/tradeyard/backend/internal/domain/partner"
	"github.com/tradeyard/backend/internal/domain/shared"
)

// MockTransactionRepository is a mock implementation of cashflow.Repository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*cashflow.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cashflow.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]cashflow.Transaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cashflow.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindBefore(ctx context.Context, day time.Time) ([]cashflow.Transaction, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cashflow.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByRelatedInvoice(ctx context.Context, invoiceID uuid.UUID) ([]cashflow.Transaction, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cashflow.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) Save(ctx context.Context, txn *cashflow.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) SaveWithLock(ctx context.Context, txn *cashflow.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockBuyerRepository is a mock implementation of partner.BuyerRepository
type MockBuyerRepository struct {
	mock.Mock
}

func (m *MockBuyerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Buyer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Buyer), args.Error(1)
}

func (m *MockBuyerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Buyer, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Buyer), args.Error(1)
}

func (m *MockBuyerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBuyerRepository) Save(ctx context.Context, buyer *partner.Buyer) error {
	args := m.Called(ctx, buyer)
	return args.Error(0)
}

func (m *MockBuyerRepository) SaveWithLock(ctx context.Context, buyer *partner.Buyer) error {
	args := m.Called(ctx, buyer)
	return args.Error(0)
}

func (m *MockBuyerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSupplierRepository is a mock implementation of partner.SupplierRepository
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Supplier, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) SaveWithLock(ctx context.Context, supplier *partner.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockBuyerInvoiceRepository is a mock implementation of billing.BuyerInvoiceRepository
type MockBuyerInvoiceRepository struct {
	mock.Mock
}

func (m *MockBuyerInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.BuyerInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.BuyerInvoice), args.Error(1)
}

func (m *MockBuyerInvoiceRepository) FindByIDsOrderedByCreation(ctx context.Context, ids []uuid.UUID) ([]billing.BuyerInvoice, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.BuyerInvoice), args.Error(1)
}

func (m *MockBuyerInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.BuyerInvoice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.BuyerInvoice), args.Error(1)
}

func (m *MockBuyerInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBuyerInvoiceRepository) CountByDate(ctx context.Context, date time.Time) (int64, error) {
	args := m.Called(ctx, date)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBuyerInvoiceRepository) Save(ctx context.Context, inv *billing.BuyerInvoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockBuyerInvoiceRepository) SaveWithLock(ctx context.Context, inv *billing.BuyerInvoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockBuyerInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSupplierInvoiceRepository is a mock implementation of billing.SupplierInvoiceRepository
type MockSupplierInvoiceRepository struct {
	mock.Mock
}

func (m *MockSupplierInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.SupplierInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.SupplierInvoice), args.Error(1)
}

func (m *MockSupplierInvoiceRepository) FindByEntryID(ctx context.Context, entryID uuid.UUID) (*billing.SupplierInvoice, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.SupplierInvoice), args.Error(1)
}

func (m *MockSupplierInvoiceRepository) FindByIDsOrderedByCreation(ctx context.Context, ids []uuid.UUID) ([]billing.SupplierInvoice, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.SupplierInvoice), args.Error(1)
}

func (m *MockSupplierInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.SupplierInvoice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.SupplierInvoice), args.Error(1)
}

func (m *MockSupplierInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSupplierInvoiceRepository) CountByDate(ctx context.Context, date time.Time) (int64, error) {
	args := m.Called(ctx, date)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSupplierInvoiceRepository) Save(ctx context.Context, inv *billing.SupplierInvoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockSupplierInvoiceRepository) SaveWithLock(ctx context.Context, inv *billing.SupplierInvoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockSupplierInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAuditRecorder is a mock implementation of audit.Recorder
type MockAuditRecorder struct {
	mock.Mock
}

func (m *MockAuditRecorder) Record(ctx context.Context, rec *audit.Record) {
	m.Called(ctx, rec)
}
