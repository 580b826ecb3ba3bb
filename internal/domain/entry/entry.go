package entry

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradeyard/backend/internal/domain/shared"
)

// Entry represents one supplier delivery for one calendar day.
// It is the aggregate root for intake, auctioning and invoice linkage.
type Entry struct {
	shared.BaseAggregateRoot
	SerialNumber        string    `gorm:"type:varchar(20);not null;index"`
	SupplierID          uuid.UUID `gorm:"type:uuid;not null;index:idx_entry_supplier_date"`
	EntryDate           time.Time `gorm:"type:date;not null;index:idx_entry_supplier_date"`
	Items               []EntryItem `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE"`
	TotalQuantities     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAmount         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status              EntryStatus     `gorm:"type:varchar(20);not null;default:'Pending'"`
	LastSubSerialNumber int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Entry) TableName() string {
	return "entries"
}

// FormatSerialNumber builds the daily serial MMDD-NNN, where the sequence is
// the count of entries already created that day (across all suppliers) plus one.
func FormatSerialNumber(date time.Time, sequence int) string {
	return fmt.Sprintf("%02d%02d-%03d", int(date.Month()), date.Day(), sequence)
}

// DayOf truncates a timestamp to its calendar day
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// NewEntry creates a new entry with intake items. Items are numbered
// sequentially from 1 and the entry starts Pending.
func NewEntry(supplierID uuid.UUID, serialNumber string, entryDate time.Time, items []EntryItem) (*Entry, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if serialNumber == "" {
		return nil, shared.NewDomainError("INVALID_SERIAL_NUMBER", "Serial number cannot be empty")
	}

	e := &Entry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SerialNumber:      serialNumber,
		SupplierID:        supplierID,
		EntryDate:         DayOf(entryDate),
		Status:            StatusPending,
	}

	for idx := range items {
		items[idx].EntryID = e.ID
		items[idx].SubSerialNumber = idx + 1
		items[idx].Recalculate()
	}
	e.Items = items
	e.LastSubSerialNumber = len(items)
	e.recalculateTotals()
	e.Status = ComputeStatus(e.Items, false)

	return e, nil
}

// IsAuctioned reports whether any item has a buyer assigned. Once true, the
// sub-serial numbers of existing items are frozen.
func (e *Entry) IsAuctioned() bool {
	for _, item := range e.Items {
		if item.IsAuctioned() {
			return true
		}
	}
	return false
}

// HasBuyerInvoiceLinks reports whether any item is consumed by a buyer
// invoice. Such an entry can never be deleted.
func (e *Entry) HasBuyerInvoiceLinks() bool {
	for _, item := range e.Items {
		if item.IsBuyerInvoiced() {
			return true
		}
	}
	return false
}

// HasSupplierInvoiceLinks reports whether any item is settled by a supplier invoice
func (e *Entry) HasSupplierInvoiceLinks() bool {
	for _, item := range e.Items {
		if item.SupplierInvoiceID != nil {
			return true
		}
	}
	return false
}

// ReplaceItems replaces the item list, applying the numbering rules:
// while no item (existing or incoming) has a buyer, items are renumbered
// contiguously from 1; once any item is auctioned, matched items keep their
// numbers and new items each take lastSubSerialNumber+1.
func (e *Entry) ReplaceItems(incoming []EntryItem) {
	auctioned := e.IsAuctioned()
	if !auctioned {
		for _, item := range incoming {
			if item.BuyerID != nil {
				auctioned = true
				break
			}
		}
	}

	if !auctioned {
		for idx := range incoming {
			incoming[idx].EntryID = e.ID
			incoming[idx].SubSerialNumber = idx + 1
			incoming[idx].Recalculate()
		}
		e.LastSubSerialNumber = len(incoming)
	} else {
		existing := make(map[uuid.UUID]int, len(e.Items))
		for _, item := range e.Items {
			existing[item.ID] = item.SubSerialNumber
		}
		for idx := range incoming {
			incoming[idx].EntryID = e.ID
			if sub, ok := existing[incoming[idx].ID]; ok {
				incoming[idx].SubSerialNumber = sub
			} else {
				e.LastSubSerialNumber++
				incoming[idx].SubSerialNumber = e.LastSubSerialNumber
			}
			incoming[idx].Recalculate()
		}
	}

	e.Items = incoming
	e.recalculateTotals()
	e.Status = ComputeStatus(e.Items, false)
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

// RemoveItem removes one item and re-applies the numbering rules
func (e *Entry) RemoveItem(itemID uuid.UUID) error {
	remaining := make([]EntryItem, 0, len(e.Items))
	found := false
	for _, item := range e.Items {
		if item.ID == itemID {
			found = true
			continue
		}
		remaining = append(remaining, item)
	}
	if !found {
		return shared.ErrNotFound
	}
	e.ReplaceItems(remaining)
	return nil
}

// FindItem returns a pointer to the item with the given id, or nil
func (e *Entry) FindItem(itemID uuid.UUID) *EntryItem {
	for idx := range e.Items {
		if e.Items[idx].ID == itemID {
			return &e.Items[idx]
		}
	}
	return nil
}

// LinkBuyerInvoice stamps the buyer invoice onto one item and refreshes status
func (e *Entry) LinkBuyerInvoice(itemID, invoiceID uuid.UUID) error {
	item := e.FindItem(itemID)
	if item == nil {
		return shared.ErrNotFound
	}
	id := invoiceID
	item.InvoiceID = &id
	item.UpdatedAt = time.Now()
	e.RefreshStatus(false)
	return nil
}

// UnlinkBuyerInvoice clears the given buyer invoice from every linked item
func (e *Entry) UnlinkBuyerInvoice(invoiceID uuid.UUID) {
	for idx := range e.Items {
		if e.Items[idx].InvoiceID != nil && *e.Items[idx].InvoiceID == invoiceID {
			e.Items[idx].InvoiceID = nil
			e.Items[idx].UpdatedAt = time.Now()
		}
	}
	e.RefreshStatus(false)
}

// LinkSupplierInvoice stamps the supplier invoice onto every item matching one
// of the invoice lines by (product, rate). Partial linkage is intentional:
// items without a matching line are left untouched.
func (e *Entry) LinkSupplierInvoice(invoiceID uuid.UUID, lines []InvoiceLineRef) int {
	linked := 0
	for idx := range e.Items {
		for _, line := range lines {
			if e.Items[idx].MatchesInvoiceLine(line.ProductID, line.RatePerQuantity) {
				id := invoiceID
				e.Items[idx].SupplierInvoiceID = &id
				e.Items[idx].UpdatedAt = time.Now()
				linked++
				break
			}
		}
	}
	e.RefreshStatus(true)
	return linked
}

// UnlinkSupplierInvoice clears the given supplier invoice from every linked item
func (e *Entry) UnlinkSupplierInvoice(invoiceID uuid.UUID) {
	for idx := range e.Items {
		if e.Items[idx].SupplierInvoiceID != nil && *e.Items[idx].SupplierInvoiceID == invoiceID {
			e.Items[idx].SupplierInvoiceID = nil
			e.Items[idx].UpdatedAt = time.Now()
		}
	}
	e.RefreshStatus(false)
}

// InvoiceLineRef identifies a supplier invoice line for item relinking
type InvoiceLineRef struct {
	ProductID       uuid.UUID
	RatePerQuantity decimal.Decimal
}

// RefreshStatus recomputes the derived status and totals after link mutations
func (e *Entry) RefreshStatus(hasSupplierInvoiceLinkage bool) {
	e.recalculateTotals()
	e.Status = ComputeStatus(e.Items, hasSupplierInvoiceLinkage)
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

// UninvoicedItemsForBuyer returns the items auctioned to the buyer that no
// buyer invoice has consumed yet
func (e *Entry) UninvoicedItemsForBuyer(buyerID uuid.UUID) []EntryItem {
	var out []EntryItem
	for _, item := range e.Items {
		if item.BuyerID != nil && *item.BuyerID == buyerID && item.InvoiceID == nil {
			out = append(out, item)
		}
	}
	return out
}

func (e *Entry) recalculateTotals() {
	total := decimal.Zero
	quantities := decimal.Zero
	for _, item := range e.Items {
		total = total.Add(item.SubTotal)
		quantities = quantities.Add(item.Quantity)
	}
	e.TotalAmount = total
	e.TotalQuantities = quantities
}
