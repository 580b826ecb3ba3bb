package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradeyard/backend/internal/domain/billing"
	"github.com/tradeyard/backend/internal/domain/cashflow"
	"github.com/tradeyard/backend/internal/domain/partner"
	"github.com/tradeyard/backend/internal/domain/shared"
)

// driftEpsilon absorbs whole-unit rounding differences between invoice
// finalization and ledger postings.
var driftEpsilon = decimal.NewFromFloat(0.01)

const reconcilePageSize = 500

// PartnerDrift reports one partner whose stored outstanding disagrees with
// the balance derived from invoices and ledger transactions
type PartnerDrift struct {
	EntityID   uuid.UUID       `json:"entity_id"`
	EntityName string          `json:"entity_name"`
	Stored     decimal.Decimal `json:"stored"`
	Derived    decimal.Decimal `json:"derived"`
	Drift      decimal.Decimal `json:"drift"`
}

// DriftReport is the result of a full reconciliation pass
type DriftReport struct {
	CheckedAt time.Time      `json:"checked_at"`
	Buyers    []PartnerDrift `json:"buyers"`
	Suppliers []PartnerDrift `json:"suppliers"`
	Clean     bool           `json:"clean"`
}

// ReconciliationService derives every partner's expected outstanding from
// the invoice and ledger history and compares it to the stored balance.
// Multi-aggregate mutations are not transactional, so a failure partway
// through an invoice or payment operation can strand a balance; this check
// makes such drift visible instead of letting it accumulate silently.
type ReconciliationService struct {
	buyerRepo           partner.BuyerRepository
	supplierRepo        partner.SupplierRepository
	buyerInvoiceRepo    billing.BuyerInvoiceRepository
	supplierInvoiceRepo billing.SupplierInvoiceRepository
	txnRepo             cashflow.Repository
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(buyerRepo partner.BuyerRepository, supplierRepo partner.SupplierRepository, buyerInvoiceRepo billing.BuyerInvoiceRepository, supplierInvoiceRepo billing.SupplierInvoiceRepository, txnRepo cashflow.Repository) *ReconciliationService {
	return &ReconciliationService{
		buyerRepo:           buyerRepo,
		supplierRepo:        supplierRepo,
		buyerInvoiceRepo:    buyerInvoiceRepo,
		supplierInvoiceRepo: supplierInvoiceRepo,
		txnRepo:             txnRepo,
	}
}

// CheckDrift runs a full reconciliation pass over all partners
func (s *ReconciliationService) CheckDrift(ctx context.Context) (*DriftReport, error) {
	buyerCharges, supplierPayables, err := s.deriveInvoiceEffects(ctx)
	if err != nil {
		return nil, err
	}
	buyerCredits, supplierSettlements, err := s.deriveLedgerEffects(ctx)
	if err != nil {
		return nil, err
	}

	report := &DriftReport{CheckedAt: time.Now(), Clean: true}

	err = s.eachBuyer(ctx, func(b *partner.Buyer) {
		derived := buyerCharges[b.ID].Sub(buyerCredits[b.ID])
		drift := b.Outstanding.Sub(derived)
		if drift.Abs().GreaterThan(driftEpsilon) {
			report.Clean = false
			report.Buyers = append(report.Buyers, PartnerDrift{
				EntityID: b.ID, EntityName: b.BuyerName,
				Stored: b.Outstanding, Derived: derived, Drift: drift,
			})
		}
	})
	if err != nil {
		return nil, err
	}

	err = s.eachSupplier(ctx, func(sp *partner.Supplier) {
		derived := supplierSettlements[sp.ID].Sub(supplierPayables[sp.ID])
		drift := sp.Outstanding.Sub(derived)
		if drift.Abs().GreaterThan(driftEpsilon) {
			report.Clean = false
			report.Suppliers = append(report.Suppliers, PartnerDrift{
				EntityID: sp.ID, EntityName: sp.SupplierName,
				Stored: sp.Outstanding, Derived: derived, Drift: drift,
			})
		}
	})
	if err != nil {
		return nil, err
	}

	return report, nil
}

// deriveInvoiceEffects sums each partner's invoice-side balance movements
func (s *ReconciliationService) deriveInvoiceEffects(ctx context.Context) (map[uuid.UUID]decimal.Decimal, map[uuid.UUID]decimal.Decimal, error) {
	buyerCharges := make(map[uuid.UUID]decimal.Decimal)
	supplierPayables := make(map[uuid.UUID]decimal.Decimal)

	for page := 1; ; page++ {
		filter := shared.DefaultFilter()
		filter.Page = page
		filter.PageSize = reconcilePageSize
		invoices, err := s.buyerInvoiceRepo.FindAll(ctx, filter)
		if err != nil {
			return nil, nil, err
		}
		for i := range invoices {
			inv := &invoices[i]
			buyerCharges[inv.BuyerID] = buyerCharges[inv.BuyerID].Add(inv.NettAmount)
		}
		if len(invoices) < reconcilePageSize {
			break
		}
	}

	for page := 1; ; page++ {
		filter := shared.DefaultFilter()
		filter.Page = page
		filter.PageSize = reconcilePageSize
		invoices, err := s.supplierInvoiceRepo.FindAll(ctx, filter)
		if err != nil {
			return nil, nil, err
		}
		for i := range invoices {
			inv := &invoices[i]
			supplierPayables[inv.SupplierID] = supplierPayables[inv.SupplierID].Add(inv.NettAmount)
		}
		if len(invoices) < reconcilePageSize {
			break
		}
	}

	return buyerCharges, supplierPayables, nil
}

// deriveLedgerEffects sums each partner's transaction-side balance movements
func (s *ReconciliationService) deriveLedgerEffects(ctx context.Context) (map[uuid.UUID]decimal.Decimal, map[uuid.UUID]decimal.Decimal, error) {
	buyerCredits := make(map[uuid.UUID]decimal.Decimal)
	supplierSettlements := make(map[uuid.UUID]decimal.Decimal)

	for page := 1; ; page++ {
		filter := shared.DefaultFilter()
		filter.Page = page
		filter.PageSize = reconcilePageSize
		txns, err := s.txnRepo.FindAll(ctx, filter)
		if err != nil {
			return nil, nil, err
		}
		for i := range txns {
			txn := &txns[i]
			if txn.EntityID == nil {
				continue
			}
			switch {
			case txn.Type == cashflow.TypeIncome:
				buyerCredits[*txn.EntityID] = buyerCredits[*txn.EntityID].Add(txn.CreditAmount())
			case txn.IsSupplierPayment() || txn.IsAdvancePayment():
				supplierSettlements[*txn.EntityID] = supplierSettlements[*txn.EntityID].Add(txn.Amount)
			}
		}
		if len(txns) < reconcilePageSize {
			break
		}
	}

	return buyerCredits, supplierSettlements, nil
}

func (s *ReconciliationService) eachBuyer(ctx context.Context, visit func(*partner.Buyer)) error {
	for page := 1; ; page++ {
		filter := shared.DefaultFilter()
		filter.Page = page
		filter.PageSize = reconcilePageSize
		buyers, err := s.buyerRepo.FindAll(ctx, filter)
		if err != nil {
			return err
		}
		for i := range buyers {
			visit(&buyers[i])
		}
		if len(buyers) < reconcilePageSize {
			return nil
		}
	}
}

func (s *ReconciliationService) eachSupplier(ctx context.Context, visit func(*partner.Supplier)) error {
	for page := 1; ; page++ {
		filter := shared.DefaultFilter()
		filter.Page = page
		filter.PageSize = reconcilePageSize
		suppliers, err := s.supplierRepo.FindAll(ctx, filter)
		if err != nil {
			return err
		}
		for i := range suppliers {
			visit(&suppliers[i])
		}
		if len(suppliers) < reconcilePageSize {
			return nil
		}
	}
}
