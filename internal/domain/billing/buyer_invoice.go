package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradeyard/backend/internal/domain/shared"
)

// formatEpsilon is the tolerance used when deciding whether a stored nett
// amount was written under the pre-discount formula (see RevertAmount).
var formatEpsilon = decimal.NewFromFloat(0.001)

// BuyerInvoiceItem is a frozen snapshot of an entry item at invoicing time.
// The entry linkage travels with the snapshot so update/delete can unlink.
type BuyerInvoiceItem struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	InvoiceID         uuid.UUID `gorm:"type:uuid;not null;index"`
	EntryID           uuid.UUID `gorm:"type:uuid;not null;index"`
	EntryItemID       uuid.UUID `gorm:"type:uuid;not null"`
	EntrySerialNumber string    `gorm:"type:varchar(20)"`
	SupplierID        uuid.UUID `gorm:"type:uuid"`
	ProductID         uuid.UUID `gorm:"type:uuid"`
	ProductName       string    `gorm:"type:varchar(200)"`
	Quantity          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	NettWeight        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	RatePerQuantity   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SubTotal          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedAt         time.Time
}

// TableName returns the table name for GORM
func (BuyerInvoiceItem) TableName() string {
	return "buyer_invoice_items"
}

// BuyerInvoice bills a buyer for auctioned items consumed across entries.
// Its nett amount is added to the buyer's outstanding at creation and
// reverted at deletion.
type BuyerInvoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber string    `gorm:"type:varchar(30);not null;uniqueIndex"`
	BuyerID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Items         []BuyerInvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	TotalAmount   decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	Wages         decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	Adjustments   decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	Discount      decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	NettAmount    decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	PaidAmount    decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (BuyerInvoice) TableName() string {
	return "buyer_invoices"
}

// FormatInvoiceNumber builds a date-based invoice number. The day segment is
// zero-padded to three digits, an inherited quirk kept for number
// compatibility with historical records.
func FormatInvoiceNumber(prefix string, date time.Time, sequence int) string {
	return fmt.Sprintf("%s-%04d%02d%03d-%03d", prefix, date.Year(), int(date.Month()), date.Day(), sequence)
}

// NewBuyerInvoice creates a buyer invoice from frozen item snapshots.
// nett = total + wages + adjustments - discount; payments are recorded
// separately and accumulate into PaidAmount.
func NewBuyerInvoice(invoiceNumber string, buyerID uuid.UUID, items []BuyerInvoiceItem, wages, adjustments, discount decimal.Decimal, createdAt time.Time) (*BuyerInvoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if buyerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUYER", "Buyer ID cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("INVALID_ITEMS", "Invoice must contain at least one item")
	}

	inv := &BuyerInvoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		BuyerID:           buyerID,
		Wages:             wages,
		Adjustments:       adjustments,
		Discount:          discount,
		PaidAmount:        decimal.Zero,
	}
	if !createdAt.IsZero() {
		inv.CreatedAt = createdAt
	}
	for idx := range items {
		items[idx].InvoiceID = inv.ID
		if items[idx].ID == uuid.Nil {
			items[idx].ID = uuid.New()
		}
	}
	inv.Items = items
	inv.recalculateTotals()

	return inv, nil
}

// Rebill replaces the line items and charge components during an update.
// The nett amount is always recomputed under the current formula.
func (inv *BuyerInvoice) Rebill(buyerID uuid.UUID, items []BuyerInvoiceItem, wages, adjustments, discount decimal.Decimal) error {
	if buyerID == uuid.Nil {
		return shared.NewDomainError("INVALID_BUYER", "Buyer ID cannot be empty")
	}
	if len(items) == 0 {
		return shared.NewDomainError("INVALID_ITEMS", "Invoice must contain at least one item")
	}

	inv.BuyerID = buyerID
	inv.Wages = wages
	inv.Adjustments = adjustments
	inv.Discount = discount
	for idx := range items {
		items[idx].InvoiceID = inv.ID
		if items[idx].ID == uuid.Nil {
			items[idx].ID = uuid.New()
		}
	}
	inv.Items = items
	inv.recalculateTotals()
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()

	return nil
}

// RevertAmount returns the amount to subtract from the buyer's outstanding
// when undoing this invoice's balance effect.
//
// Historical records were written before the discount was folded into the
// nett amount. The stored format is inferred by comparing the nett amount to
// the recomputed gross (total+wages+adjustments): when they agree the record
// is old-format and the discount still has to be taken off; otherwise the
// nett amount is reverted as-is. Records written by this codebase always
// take the second branch.
func (inv *BuyerInvoice) RevertAmount() decimal.Decimal {
	recomputedGross := inv.TotalAmount.Add(inv.Wages).Add(inv.Adjustments)
	if inv.NettAmount.Sub(recomputedGross).Abs().LessThanOrEqual(formatEpsilon) && !inv.Discount.IsZero() {
		return inv.NettAmount.Sub(inv.Discount)
	}
	return inv.NettAmount
}

// RecordPayment accumulates a received credit into the paid amount
func (inv *BuyerInvoice) RecordPayment(credit decimal.Decimal) error {
	if credit.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment cannot be negative")
	}
	inv.PaidAmount = inv.PaidAmount.Add(credit)
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
	return nil
}

// RemainingBalance returns the credit this invoice can still absorb
func (inv *BuyerInvoice) RemainingBalance() decimal.Decimal {
	return inv.NettAmount.Sub(inv.Discount).Sub(inv.PaidAmount)
}

// EntryIDs returns the distinct entries whose items this invoice consumed
func (inv *BuyerInvoice) EntryIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(inv.Items))
	var ids []uuid.UUID
	for _, item := range inv.Items {
		if !seen[item.EntryID] {
			seen[item.EntryID] = true
			ids = append(ids, item.EntryID)
		}
	}
	return ids
}

func (inv *BuyerInvoice) recalculateTotals() {
	total := decimal.Zero
	for _, item := range inv.Items {
		total = total.Add(item.SubTotal)
	}
	inv.TotalAmount = total
	gross := total.Add(inv.Wages).Add(inv.Adjustments)
	inv.NettAmount = gross.Sub(inv.Discount)
}
