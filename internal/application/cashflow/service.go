package cashflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradeyard/backend/internal/domain/audit"
	"github.com/tradeyard/backend/internal/domain/billing"
	"github.com/tradeyard/backend/internal/domain/cashflow"
	"github.com/tradeyard/backend/internal/domain/entry"
	"github.com/tradeyard/backend/internal/domain/partner"
	"github.com/tradeyard/backend/internal/domain/shared"
)

// Service handles the cash-flow ledger. Creation distributes payments onto
// the referenced invoices; deletion and update reverse only the partner's
// aggregate balance, never the distributed invoice paid amounts. That
// asymmetry is inherited behavior and is documented by a dedicated test
// rather than fixed here.
type Service struct {
	txnRepo             cashflow.Repository
	buyerRepo           partner.BuyerRepository
	supplierRepo        partner.SupplierRepository
	buyerInvoiceRepo    billing.BuyerInvoiceRepository
	supplierInvoiceRepo billing.SupplierInvoiceRepository
	auditor             audit.Recorder
}

// NewService creates a new cash-flow Service
func NewService(txnRepo cashflow.Repository, buyerRepo partner.BuyerRepository, supplierRepo partner.SupplierRepository, buyerInvoiceRepo billing.BuyerInvoiceRepository, supplierInvoiceRepo billing.SupplierInvoiceRepository, auditor audit.Recorder) *Service {
	return &Service{
		txnRepo:             txnRepo,
		buyerRepo:           buyerRepo,
		supplierRepo:        supplierRepo,
		buyerInvoiceRepo:    buyerInvoiceRepo,
		supplierInvoiceRepo: supplierInvoiceRepo,
		auditor:             auditor,
	}
}

// Create records a ledger transaction, applies its partner balance effect
// and distributes the payment across the referenced invoices
func (s *Service) Create(ctx context.Context, actor audit.Actor, req TransactionInput) (*TransactionResponse, error) {
	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	txn, err := cashflow.NewTransaction(date, cashflow.TransactionType(req.Type), req.Category,
		req.EntityID, req.EntityName, req.Amount, req.Discount,
		cashflow.Method(req.Method), cashflow.Method(req.ToMethod),
		req.Reference, req.Description, req.RelatedEntryIDs, req.RelatedInvoiceIDs)
	if err != nil {
		return nil, err
	}

	if err := s.applyEntityEffect(ctx, txn); err != nil {
		return nil, err
	}
	if err := s.distribute(ctx, txn); err != nil {
		return nil, err
	}

	if err := s.txnRepo.Save(ctx, txn); err != nil {
		return nil, err
	}

	s.record(ctx, actor, "create", fmt.Sprintf("Recorded %s of %s", txn.Type, txn.Amount.String()))
	response := ToTransactionResponse(txn)
	return &response, nil
}

// Update reverts the old partner balance effect, applies the new field
// values and reapplies the effect. Distributed invoice paid amounts are
// left untouched.
func (s *Service) Update(ctx context.Context, actor audit.Actor, id uuid.UUID, req TransactionInput) (*TransactionResponse, error) {
	txn, err := s.txnRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.revertEntityEffect(ctx, txn); err != nil {
		return nil, err
	}

	date := txn.Date
	if req.Date != nil {
		date = *req.Date
	}
	if err := txn.Revise(date, cashflow.TransactionType(req.Type), req.Category,
		req.EntityID, req.EntityName, req.Amount, req.Discount,
		cashflow.Method(req.Method), cashflow.Method(req.ToMethod),
		req.Reference, req.Description, req.RelatedEntryIDs, req.RelatedInvoiceIDs); err != nil {
		return nil, err
	}

	if err := s.applyEntityEffect(ctx, txn); err != nil {
		return nil, err
	}

	if err := s.txnRepo.SaveWithLock(ctx, txn); err != nil {
		return nil, err
	}

	s.record(ctx, actor, "update", fmt.Sprintf("Updated %s of %s", txn.Type, txn.Amount.String()))
	response := ToTransactionResponse(txn)
	return &response, nil
}

// Delete reverses the partner balance effect and removes the transaction.
// Distributed invoice paid amounts are left untouched.
func (s *Service) Delete(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	txn, err := s.txnRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.revertEntityEffect(ctx, txn); err != nil {
		return err
	}

	if err := s.txnRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.record(ctx, actor, "delete", fmt.Sprintf("Deleted %s of %s", txn.Type, txn.Amount.String()))
	return nil
}

// GetByID retrieves a transaction
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*TransactionResponse, error) {
	txn, err := s.txnRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToTransactionResponse(txn)
	return &response, nil
}

// List retrieves transactions with filtering and pagination
func (s *Service) List(ctx context.Context, filter TransactionListFilter) ([]TransactionResponse, int64, error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	f.Search = filter.Search
	if filter.Type != "" {
		f.Filters["type"] = filter.Type
	}
	if filter.EntityID != nil {
		f.Filters["entity_id"] = *filter.EntityID
	}

	txns, err := s.txnRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.txnRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses, total, nil
}

// GetOpeningBalance replays every transaction dated strictly before the
// given day into a {total, cash, bank} position
func (s *Service) GetOpeningBalance(ctx context.Context, asOf time.Time) (*OpeningBalanceResponse, error) {
	day := entry.DayOf(asOf)
	txns, err := s.txnRepo.FindBefore(ctx, day)
	if err != nil {
		return nil, err
	}
	return &OpeningBalanceResponse{AsOf: day, Position: cashflow.Replay(txns)}, nil
}

// applyEntityEffect moves the partner's outstanding balance for Income and
// Expense rows. Transfers have no partner effect.
func (s *Service) applyEntityEffect(ctx context.Context, txn *cashflow.Transaction) error {
	if txn.EntityID == nil {
		return nil
	}
	switch txn.Type {
	case cashflow.TypeIncome:
		buyer, err := s.buyerRepo.FindByID(ctx, *txn.EntityID)
		if err != nil {
			return err
		}
		if err := buyer.Credit(txn.CreditAmount()); err != nil {
			return err
		}
		return s.buyerRepo.SaveWithLock(ctx, buyer)
	case cashflow.TypeExpense:
		if txn.Category != cashflow.CategorySupplierPayment && txn.Category != cashflow.CategoryAdvancePayment {
			return nil
		}
		supplier, err := s.supplierRepo.FindByID(ctx, *txn.EntityID)
		if err != nil {
			return err
		}
		if err := supplier.SettlePayable(txn.Amount); err != nil {
			return err
		}
		return s.supplierRepo.SaveWithLock(ctx, supplier)
	}
	return nil
}

func (s *Service) revertEntityEffect(ctx context.Context, txn *cashflow.Transaction) error {
	if txn.EntityID == nil {
		return nil
	}
	switch txn.Type {
	case cashflow.TypeIncome:
		buyer, err := s.buyerRepo.FindByID(ctx, *txn.EntityID)
		if err != nil {
			return err
		}
		if err := buyer.Charge(txn.CreditAmount()); err != nil {
			return err
		}
		return s.buyerRepo.SaveWithLock(ctx, buyer)
	case cashflow.TypeExpense:
		if txn.Category != cashflow.CategorySupplierPayment && txn.Category != cashflow.CategoryAdvancePayment {
			return nil
		}
		supplier, err := s.supplierRepo.FindByID(ctx, *txn.EntityID)
		if err != nil {
			return err
		}
		if err := supplier.AddPayable(txn.Amount); err != nil {
			return err
		}
		return s.supplierRepo.SaveWithLock(ctx, supplier)
	}
	return nil
}

// distribute pushes the payment onto the referenced invoices at creation
// time only
func (s *Service) distribute(ctx context.Context, txn *cashflow.Transaction) error {
	switch txn.Type {
	case cashflow.TypeIncome:
		if len(txn.RelatedInvoiceIDs) == 0 {
			return nil
		}
		return s.allocateToBuyerInvoices(ctx, txn.RelatedInvoiceIDs, txn.CreditAmount())
	case cashflow.TypeExpense:
		if !txn.IsSupplierPayment() && !txn.IsAdvancePayment() {
			return nil
		}
		if len(txn.RelatedInvoiceIDs) > 0 {
			return s.allocateToSupplierInvoices(ctx, txn.RelatedInvoiceIDs, txn.Amount)
		}
		if len(txn.RelatedEntryIDs) > 0 {
			return s.applyToInvoiceCoveringEntries(ctx, txn)
		}
	}
	return nil
}

// allocateToBuyerInvoices spreads a credit pool across invoices oldest
// first, capping each invoice at its remaining balance
func (s *Service) allocateToBuyerInvoices(ctx context.Context, ids []uuid.UUID, credit decimal.Decimal) error {
	invoices, err := s.buyerInvoiceRepo.FindByIDsOrderedByCreation(ctx, ids)
	if err != nil {
		return err
	}
	for i := range invoices {
		if !credit.IsPositive() {
			break
		}
		inv := &invoices[i]
		take := decimal.Min(credit, inv.RemainingBalance())
		if !take.IsPositive() {
			continue
		}
		if err := inv.RecordPayment(take); err != nil {
			return err
		}
		if err := s.buyerInvoiceRepo.SaveWithLock(ctx, inv); err != nil {
			return err
		}
		credit = credit.Sub(take)
	}
	return nil
}

// allocateToSupplierInvoices spreads a payment across invoices oldest first,
// capping each at its unpaid nett amount and refreshing its status
func (s *Service) allocateToSupplierInvoices(ctx context.Context, ids []uuid.UUID, amount decimal.Decimal) error {
	invoices, err := s.supplierInvoiceRepo.FindByIDsOrderedByCreation(ctx, ids)
	if err != nil {
		return err
	}
	for i := range invoices {
		if !amount.IsPositive() {
			break
		}
		inv := &invoices[i]
		take := decimal.Min(amount, inv.RemainingBalance())
		if !take.IsPositive() {
			continue
		}
		if err := inv.ApplyPayment(take); err != nil {
			return err
		}
		if err := s.supplierInvoiceRepo.SaveWithLock(ctx, inv); err != nil {
			return err
		}
		amount = amount.Sub(take)
	}
	return nil
}

// applyToInvoiceCoveringEntries handles the advance case where only entries
// are referenced: the one supplier invoice whose entry set covers every
// referenced entry absorbs the full amount
func (s *Service) applyToInvoiceCoveringEntries(ctx context.Context, txn *cashflow.Transaction) error {
	if len(txn.RelatedEntryIDs) == 0 {
		return nil
	}
	inv, err := s.supplierInvoiceRepo.FindByEntryID(ctx, txn.RelatedEntryIDs[0])
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}
	if !cashflow.UUIDList(inv.EntryIDs()).ContainsAll(txn.RelatedEntryIDs) {
		return nil
	}
	if err := inv.ApplyPayment(txn.Amount); err != nil {
		return err
	}
	return s.supplierInvoiceRepo.SaveWithLock(ctx, inv)
}

func (s *Service) record(ctx context.Context, actor audit.Actor, action, description string) {
	s.auditor.Record(ctx, audit.NewRecord(actor.ID, actor.Name, action, "cash_flow", description))
}

func isNotFound(err error) bool {
	var domainErr *shared.DomainError
	return errors.As(err, &domainErr) && domainErr.Code == shared.ErrNotFound.Code
}
