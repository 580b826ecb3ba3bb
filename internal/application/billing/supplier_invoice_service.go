package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tradeyard/backend/internal/domain/audit"
	"github.com/tradeyard/backend/internal/domain/billing"
	"github.com/tradeyard/backend/internal/domain/cashflow"
	"github.com/tradeyard/backend/internal/domain/entry"
	"github.com/tradeyard/backend/internal/domain/partner"
	"github.com/tradeyard/backend/internal/domain/shared"
)

// SupplierInvoiceService handles supplier settlement invoices. An entry may
// be settled by at most one supplier invoice at a time; entry items are
// relinked by fuzzy (product, rate) matching because invoice lines carry no
// foreign key back to the items they came from.
type SupplierInvoiceService struct {
	invoiceRepo  billing.SupplierInvoiceRepository
	entryRepo    entry.Repository
	supplierRepo partner.SupplierRepository
	txnRepo      cashflow.Repository
	auditor      audit.Recorder
}

// NewSupplierInvoiceService creates a new SupplierInvoiceService
func NewSupplierInvoiceService(invoiceRepo billing.SupplierInvoiceRepository, entryRepo entry.Repository, supplierRepo partner.SupplierRepository, txnRepo cashflow.Repository, auditor audit.Recorder) *SupplierInvoiceService {
	return &SupplierInvoiceService{
		invoiceRepo:  invoiceRepo,
		entryRepo:    entryRepo,
		supplierRepo: supplierRepo,
		txnRepo:      txnRepo,
		auditor:      auditor,
	}
}

// Create settles the supplier's entries. Fails before any mutation when one
// of the entries is already claimed by another supplier invoice.
func (s *SupplierInvoiceService) Create(ctx context.Context, actor audit.Actor, req CreateSupplierInvoiceRequest) (*SupplierInvoiceResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}

	for _, entryID := range req.EntryIDs {
		claimed, err := s.invoiceRepo.FindByEntryID(ctx, entryID)
		if err == nil {
			return nil, shared.NewDomainError("DUPLICATE_INVOICING", "Entry is already settled by another supplier invoice").
				WithDetail("entry_id", entryID.String()).
				WithDetail("invoice_id", claimed.ID.String())
		}
		if !isNotFound(err) {
			return nil, err
		}
	}

	entries, err := s.entryRepo.FindByIDs(ctx, req.EntryIDs)
	if err != nil {
		return nil, err
	}
	if len(entries) != len(req.EntryIDs) {
		return nil, shared.ErrNotFound
	}

	day := entry.DayOf(time.Now())
	count, err := s.invoiceRepo.CountByDate(ctx, day)
	if err != nil {
		return nil, err
	}
	invoiceNumber := billing.FormatInvoiceNumber("SI", day, int(count)+1)

	links := make([]billing.SupplierInvoiceEntry, len(entries))
	for i := range entries {
		links[i] = billing.SupplierInvoiceEntry{
			ID:                uuid.New(),
			EntryID:           entries[i].ID,
			EntrySerialNumber: entries[i].SerialNumber,
		}
	}

	inv, err := billing.NewSupplierInvoice(invoiceNumber, req.SupplierID, links, toSettledItems(req.Items),
		req.CommissionRate, req.Wages, req.Adjustments, req.AdvancePaid, time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	if err := supplier.AddPayable(inv.NettAmount); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.SaveWithLock(ctx, supplier); err != nil {
		return nil, err
	}

	lines := toLineRefs(inv.Items)
	for i := range entries {
		entries[i].LinkSupplierInvoice(inv.ID, lines)
		if err := s.entryRepo.SaveWithLock(ctx, &entries[i]); err != nil {
			return nil, err
		}
	}

	s.record(ctx, actor, "create", fmt.Sprintf("Created supplier invoice %s", inv.InvoiceNumber))
	response := ToSupplierInvoiceResponse(inv)
	return &response, nil
}

// Update resettles the invoice: the old supplier balance is reverted as-is
// (this entity never had the buyer invoice's historical format change), old
// entry links are cleared, totals recomputed, new entries relinked.
func (s *SupplierInvoiceService) Update(ctx context.Context, actor audit.Actor, id uuid.UUID, req UpdateSupplierInvoiceRequest) (*SupplierInvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, entryID := range req.EntryIDs {
		claimed, err := s.invoiceRepo.FindByEntryID(ctx, entryID)
		if err == nil && claimed.ID != inv.ID {
			return nil, shared.NewDomainError("DUPLICATE_INVOICING", "Entry is already settled by another supplier invoice").
				WithDetail("entry_id", entryID.String()).
				WithDetail("invoice_id", claimed.ID.String())
		}
		if err != nil && !isNotFound(err) {
			return nil, err
		}
	}

	oldSupplier, err := s.supplierRepo.FindByID(ctx, inv.SupplierID)
	if err != nil {
		return nil, err
	}
	if err := oldSupplier.SettlePayable(inv.NettAmount); err != nil {
		return nil, err
	}

	if err := s.unlinkEntries(ctx, inv); err != nil {
		return nil, err
	}

	newSupplier := oldSupplier
	if req.SupplierID != inv.SupplierID {
		if err := s.supplierRepo.SaveWithLock(ctx, oldSupplier); err != nil {
			return nil, err
		}
		newSupplier, err = s.supplierRepo.FindByID(ctx, req.SupplierID)
		if err != nil {
			return nil, err
		}
	}

	entries, err := s.entryRepo.FindByIDs(ctx, req.EntryIDs)
	if err != nil {
		return nil, err
	}
	if len(entries) != len(req.EntryIDs) {
		return nil, shared.ErrNotFound
	}

	links := make([]billing.SupplierInvoiceEntry, len(entries))
	for i := range entries {
		links[i] = billing.SupplierInvoiceEntry{
			ID:                uuid.New(),
			EntryID:           entries[i].ID,
			EntrySerialNumber: entries[i].SerialNumber,
		}
	}

	if err := inv.Resettle(req.SupplierID, links, toSettledItems(req.Items),
		req.CommissionRate, req.Wages, req.Adjustments, req.AdvancePaid); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}

	if err := newSupplier.AddPayable(inv.NettAmount); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.SaveWithLock(ctx, newSupplier); err != nil {
		return nil, err
	}

	lines := toLineRefs(inv.Items)
	for i := range entries {
		entries[i].LinkSupplierInvoice(inv.ID, lines)
		if err := s.entryRepo.SaveWithLock(ctx, &entries[i]); err != nil {
			return nil, err
		}
	}

	s.record(ctx, actor, "update", fmt.Sprintf("Updated supplier invoice %s", inv.InvoiceNumber))
	response := ToSupplierInvoiceResponse(inv)
	return &response, nil
}

// Delete reverts the supplier balance and disposes of linked payments:
// advances are unlinked and stand as standalone credit, settlement payments
// are deleted and their balance effect un-applied
func (s *SupplierInvoiceService) Delete(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	supplier, err := s.supplierRepo.FindByID(ctx, inv.SupplierID)
	if err != nil {
		return err
	}
	if err := supplier.SettlePayable(inv.NettAmount); err != nil {
		return err
	}

	txns, err := s.txnRepo.FindByRelatedInvoice(ctx, inv.ID)
	if err != nil {
		return err
	}
	for i := range txns {
		txn := &txns[i]
		if txn.IsAdvancePayment() {
			txn.Unlink(inv.ID)
			if err := s.txnRepo.Save(ctx, txn); err != nil {
				return err
			}
			continue
		}
		if err := s.txnRepo.Delete(ctx, txn.ID); err != nil {
			return err
		}
		if err := supplier.AddPayable(txn.Amount); err != nil {
			return err
		}
	}

	if err := s.supplierRepo.SaveWithLock(ctx, supplier); err != nil {
		return err
	}

	if err := s.unlinkEntries(ctx, inv); err != nil {
		return err
	}

	if err := s.invoiceRepo.Delete(ctx, inv.ID); err != nil {
		return err
	}

	s.record(ctx, actor, "delete", fmt.Sprintf("Deleted supplier invoice %s", inv.InvoiceNumber))
	return nil
}

// GetByID retrieves a supplier invoice
func (s *SupplierInvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*SupplierInvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToSupplierInvoiceResponse(inv)
	return &response, nil
}

// List retrieves supplier invoices with filtering and pagination
func (s *SupplierInvoiceService) List(ctx context.Context, filter InvoiceListFilter) ([]SupplierInvoiceResponse, int64, error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	f.Search = filter.Search
	if filter.SupplierID != nil {
		f.Filters["supplier_id"] = *filter.SupplierID
	}

	invoices, err := s.invoiceRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SupplierInvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToSupplierInvoiceResponse(&invoices[i])
	}
	return responses, total, nil
}

// unlinkEntries clears this invoice's item links and resets the entry
// statuses without supplier invoice linkage
func (s *SupplierInvoiceService) unlinkEntries(ctx context.Context, inv *billing.SupplierInvoice) error {
	for _, entryID := range inv.EntryIDs() {
		e, err := s.entryRepo.FindByID(ctx, entryID)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return err
		}
		e.UnlinkSupplierInvoice(inv.ID)
		if err := s.entryRepo.SaveWithLock(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (s *SupplierInvoiceService) record(ctx context.Context, actor audit.Actor, action, description string) {
	s.auditor.Record(ctx, audit.NewRecord(actor.ID, actor.Name, action, "supplier_invoices", description))
}

func toSettledItems(inputs []SupplierInvoiceItemInput) []billing.SupplierInvoiceItem {
	items := make([]billing.SupplierInvoiceItem, len(inputs))
	for i, in := range inputs {
		items[i] = billing.SupplierInvoiceItem{
			ID:              uuid.New(),
			ProductID:       in.ProductID,
			ProductName:     in.ProductName,
			Quantity:        in.Quantity,
			NettWeight:      in.NettWeight,
			RatePerQuantity: in.RatePerQuantity,
			SubTotal:        in.SubTotal,
		}
	}
	return items
}

func toLineRefs(items []billing.SupplierInvoiceItem) []entry.InvoiceLineRef {
	lines := make([]entry.InvoiceLineRef, len(items))
	for i, item := range items {
		lines[i] = entry.InvoiceLineRef{ProductID: item.ProductID, RatePerQuantity: item.RatePerQuantity}
	}
	return lines
}

func isNotFound(err error) bool {
	var domainErr *shared.DomainError
	return errors.As(err, &domainErr) && domainErr.Code == shared.ErrNotFound.Code
}
