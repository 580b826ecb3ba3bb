package billing

import (
	"context"
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

// BuyerInvoiceService handles buyer invoice lifecycle operations. Invoice
// mutations ripple into the buyer's outstanding balance, the consumed entry
// items and, on creation and deletion, the cash-flow ledger. Steps are
// applied per-aggregate in a fixed order: revert old effects first, then
// compute and apply new ones.
type BuyerInvoiceService struct {
	invoiceRepo billing.BuyerInvoiceRepository
	entryRepo   entry.Repository
	buyerRepo   partner.BuyerRepository
	txnRepo     cashflow.Repository
	auditor     audit.Recorder
}

// NewBuyerInvoiceService creates a new BuyerInvoiceService
func NewBuyerInvoiceService(invoiceRepo billing.BuyerInvoiceRepository, entryRepo entry.Repository, buyerRepo partner.BuyerRepository, txnRepo cashflow.Repository, auditor audit.Recorder) *BuyerInvoiceService {
	return &BuyerInvoiceService{
		invoiceRepo: invoiceRepo,
		entryRepo:   entryRepo,
		buyerRepo:   buyerRepo,
		txnRepo:     txnRepo,
		auditor:     auditor,
	}
}

// GetUninvoicedItems lists the items auctioned to a buyer that no invoice
// has consumed yet, annotated with their parent entries
func (s *BuyerInvoiceService) GetUninvoicedItems(ctx context.Context, buyerID uuid.UUID) ([]UninvoicedItemResponse, error) {
	entries, err := s.entryRepo.FindWithUninvoicedItemsForBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	var out []UninvoicedItemResponse
	for i := range entries {
		e := &entries[i]
		for _, item := range e.UninvoicedItemsForBuyer(buyerID) {
			out = append(out, UninvoicedItemResponse{
				EntryID:           e.ID,
				EntrySerialNumber: e.SerialNumber,
				SupplierID:        e.SupplierID,
				ItemID:            item.ID,
				ProductID:         item.ProductID,
				ProductName:       item.ProductName,
				Quantity:          item.Quantity,
				NettWeight:        item.NettWeight,
				RatePerQuantity:   item.RatePerQuantity,
				SubTotal:          item.SubTotal,
			})
		}
	}
	return out, nil
}

// Create issues a buyer invoice over auctioned entry items, charges the
// buyer's outstanding and records any initial payments as ledger income
func (s *BuyerInvoiceService) Create(ctx context.Context, actor audit.Actor, req CreateBuyerInvoiceRequest) (*BuyerInvoiceResponse, error) {
	buyer, err := s.buyerRepo.FindByID(ctx, req.BuyerID)
	if err != nil {
		return nil, err
	}

	createdAt := time.Now()
	if req.CreatedAt != nil {
		createdAt = *req.CreatedAt
	}
	day := entry.DayOf(createdAt)

	count, err := s.invoiceRepo.CountByDate(ctx, day)
	if err != nil {
		return nil, err
	}
	invoiceNumber := billing.FormatInvoiceNumber("BI", day, int(count)+1)

	entries, snapshots, err := s.snapshotItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	inv, err := billing.NewBuyerInvoice(invoiceNumber, req.BuyerID, snapshots, req.Wages, req.Adjustments, req.Discount, createdAt)
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	if err := buyer.Charge(inv.NettAmount); err != nil {
		return nil, err
	}

	for _, payment := range req.Payments {
		buyerID := buyer.ID
		txn, err := cashflow.NewTransaction(createdAt, cashflow.TypeIncome, "", &buyerID, buyer.BuyerName,
			payment.Amount, payment.Discount, cashflow.Method(payment.Method), "", payment.Reference,
			fmt.Sprintf("Payment against invoice %s", inv.InvoiceNumber),
			nil, cashflow.UUIDList{inv.ID})
		if err != nil {
			return nil, err
		}
		if err := s.txnRepo.Save(ctx, txn); err != nil {
			return nil, err
		}
		if err := inv.RecordPayment(txn.CreditAmount()); err != nil {
			return nil, err
		}
		if err := buyer.Credit(txn.CreditAmount()); err != nil {
			return nil, err
		}
	}

	if err := s.buyerRepo.SaveWithLock(ctx, buyer); err != nil {
		return nil, err
	}
	if len(req.Payments) > 0 {
		if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
			return nil, err
		}
	}

	for i := range entries {
		e := entries[i]
		for _, snap := range snapshots {
			if snap.EntryID != e.ID {
				continue
			}
			if err := e.LinkBuyerInvoice(snap.EntryItemID, inv.ID); err != nil {
				return nil, err
			}
		}
		if err := s.entryRepo.SaveWithLock(ctx, e); err != nil {
			return nil, err
		}
	}

	s.record(ctx, actor, "create", fmt.Sprintf("Created buyer invoice %s", inv.InvoiceNumber))
	response := ToBuyerInvoiceResponse(inv)
	return &response, nil
}

// Update rebills an invoice: the old balance effect is reverted using the
// stored-format heuristic, old entry links are cleared, then the new totals
// are applied and new items linked
func (s *BuyerInvoiceService) Update(ctx context.Context, actor audit.Actor, id uuid.UUID, req UpdateBuyerInvoiceRequest) (*BuyerInvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldBuyer, err := s.buyerRepo.FindByID(ctx, inv.BuyerID)
	if err != nil {
		return nil, err
	}

	if err := s.unlinkEntries(ctx, inv); err != nil {
		return nil, err
	}

	if err := oldBuyer.Credit(inv.RevertAmount()); err != nil {
		return nil, err
	}

	newBuyer := oldBuyer
	if req.BuyerID != inv.BuyerID {
		if err := s.buyerRepo.SaveWithLock(ctx, oldBuyer); err != nil {
			return nil, err
		}
		newBuyer, err = s.buyerRepo.FindByID(ctx, req.BuyerID)
		if err != nil {
			return nil, err
		}
	}

	entries, snapshots, err := s.snapshotItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	if err := inv.Rebill(req.BuyerID, snapshots, req.Wages, req.Adjustments, req.Discount); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}

	if err := newBuyer.Charge(inv.NettAmount); err != nil {
		return nil, err
	}
	if err := s.buyerRepo.SaveWithLock(ctx, newBuyer); err != nil {
		return nil, err
	}

	for i := range entries {
		e := entries[i]
		for _, snap := range snapshots {
			if snap.EntryID != e.ID {
				continue
			}
			if err := e.LinkBuyerInvoice(snap.EntryItemID, inv.ID); err != nil {
				return nil, err
			}
		}
		if err := s.entryRepo.SaveWithLock(ctx, e); err != nil {
			return nil, err
		}
	}

	s.record(ctx, actor, "update", fmt.Sprintf("Updated buyer invoice %s", inv.InvoiceNumber))
	response := ToBuyerInvoiceResponse(inv)
	return &response, nil
}

// Delete reverts the invoice's balance effect and disposes of its linked
// payments. Advance payments are unlinked and stand as buyer credit;
// ordinary payments are deleted and their balance effect reversed, netting
// to zero against the invoice revert.
func (s *BuyerInvoiceService) Delete(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	buyer, err := s.buyerRepo.FindByID(ctx, inv.BuyerID)
	if err != nil {
		return err
	}

	if err := buyer.Credit(inv.RevertAmount()); err != nil {
		return err
	}

	txns, err := s.txnRepo.FindByRelatedInvoice(ctx, inv.ID)
	if err != nil {
		return err
	}
	for i := range txns {
		txn := &txns[i]
		if txn.Category == cashflow.CategoryAdvancePayment {
			txn.Unlink(inv.ID)
			if err := s.txnRepo.Save(ctx, txn); err != nil {
				return err
			}
			continue
		}
		if err := s.txnRepo.Delete(ctx, txn.ID); err != nil {
			return err
		}
		if err := buyer.Charge(txn.CreditAmount()); err != nil {
			return err
		}
	}

	if err := s.buyerRepo.SaveWithLock(ctx, buyer); err != nil {
		return err
	}

	if err := s.unlinkEntries(ctx, inv); err != nil {
		return err
	}

	if err := s.invoiceRepo.Delete(ctx, inv.ID); err != nil {
		return err
	}

	s.record(ctx, actor, "delete", fmt.Sprintf("Deleted buyer invoice %s", inv.InvoiceNumber))
	return nil
}

// GetByID retrieves a buyer invoice
func (s *BuyerInvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*BuyerInvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToBuyerInvoiceResponse(inv)
	return &response, nil
}

// List retrieves buyer invoices with filtering and pagination
func (s *BuyerInvoiceService) List(ctx context.Context, filter InvoiceListFilter) ([]BuyerInvoiceResponse, int64, error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	f.Search = filter.Search
	if filter.BuyerID != nil {
		f.Filters["buyer_id"] = *filter.BuyerID
	}

	invoices, err := s.invoiceRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]BuyerInvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToBuyerInvoiceResponse(&invoices[i])
	}
	return responses, total, nil
}

// snapshotItems loads the referenced entries and freezes the named items
// into invoice snapshots
func (s *BuyerInvoiceService) snapshotItems(ctx context.Context, inputs []BuyerInvoiceItemInput) ([]*entry.Entry, []billing.BuyerInvoiceItem, error) {
	entryIDs := make([]uuid.UUID, 0, len(inputs))
	seen := make(map[uuid.UUID]bool, len(inputs))
	for _, in := range inputs {
		if !seen[in.EntryID] {
			seen[in.EntryID] = true
			entryIDs = append(entryIDs, in.EntryID)
		}
	}

	loaded, err := s.entryRepo.FindByIDs(ctx, entryIDs)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[uuid.UUID]*entry.Entry, len(loaded))
	entries := make([]*entry.Entry, 0, len(loaded))
	for i := range loaded {
		byID[loaded[i].ID] = &loaded[i]
		entries = append(entries, &loaded[i])
	}

	snapshots := make([]billing.BuyerInvoiceItem, 0, len(inputs))
	for _, in := range inputs {
		e, ok := byID[in.EntryID]
		if !ok {
			return nil, nil, shared.ErrNotFound
		}
		item := e.FindItem(in.EntryItemID)
		if item == nil {
			return nil, nil, shared.ErrNotFound
		}
		snapshots = append(snapshots, billing.BuyerInvoiceItem{
			ID:                uuid.New(),
			EntryID:           e.ID,
			EntryItemID:       item.ID,
			EntrySerialNumber: e.SerialNumber,
			SupplierID:        e.SupplierID,
			ProductID:         item.ProductID,
			ProductName:       item.ProductName,
			Quantity:          item.Quantity,
			NettWeight:        item.NettWeight,
			RatePerQuantity:   item.RatePerQuantity,
			SubTotal:          item.SubTotal,
		})
	}
	return entries, snapshots, nil
}

// unlinkEntries clears this invoice from every entry it consumed
func (s *BuyerInvoiceService) unlinkEntries(ctx context.Context, inv *billing.BuyerInvoice) error {
	for _, entryID := range inv.EntryIDs() {
		e, err := s.entryRepo.FindByID(ctx, entryID)
		if err != nil {
			return err
		}
		e.UnlinkBuyerInvoice(inv.ID)
		if err := s.entryRepo.SaveWithLock(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (s *BuyerInvoiceService) record(ctx context.Context, actor audit.Actor, action, description string) {
	s.auditor.Record(ctx, audit.NewRecord(actor.ID, actor.Name, action, "buyer_invoices", description))
}
