package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradeyard/backend/internal/domain/shared"
)

// SupplierInvoiceStatus tracks how much of the final payable has been settled
type SupplierInvoiceStatus string

const (
	StatusUnpaid        SupplierInvoiceStatus = "Unpaid"
	StatusPartiallyPaid SupplierInvoiceStatus = "Partially Paid"
	StatusPaid          SupplierInvoiceStatus = "Paid"
)

var oneHundred = decimal.NewFromInt(100)

// SupplierInvoiceItem is a frozen copy of an entry item's sale at
// settlement time. Unlike buyer invoice items it does not keep the entry
// item linkage; entry coupling lives on SupplierInvoiceEntry rows.
type SupplierInvoiceItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InvoiceID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid"`
	ProductName     string          `gorm:"type:varchar(200)"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	NettWeight      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	RatePerQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SubTotal        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedAt       time.Time
}

// TableName returns the table name for GORM
func (SupplierInvoiceItem) TableName() string {
	return "supplier_invoice_items"
}

// SupplierInvoiceEntry links a settled entry to the invoice that settled it.
// The unique index on entry_id enforces that an entry is settled by at most
// one supplier invoice.
type SupplierInvoiceEntry struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	InvoiceID         uuid.UUID `gorm:"type:uuid;not null;index"`
	EntryID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	EntrySerialNumber string    `gorm:"type:varchar(20)"`
	CreatedAt         time.Time
}

// TableName returns the table name for GORM
func (SupplierInvoiceEntry) TableName() string {
	return "supplier_invoice_entries"
}

// SupplierInvoice settles one or more of a supplier's auctioned entries:
// the gross sale value minus the house commission and wages, plus manual
// adjustments, minus any advance already paid out.
type SupplierInvoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber    string                 `gorm:"type:varchar(30);not null;uniqueIndex"`
	SupplierID       uuid.UUID              `gorm:"type:uuid;not null;index"`
	EntryLinks       []SupplierInvoiceEntry `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	Items            []SupplierInvoiceItem  `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	GrossTotal       decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	CommissionRate   decimal.Decimal        `gorm:"type:decimal(8,4);not null;default:0"`
	CommissionAmount decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	Wages            decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	Adjustments      decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	NettAmount       decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	AdvancePaid      decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	FinalPayable     decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	PaidAmount       decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	Status           SupplierInvoiceStatus  `gorm:"type:varchar(20);not null;default:'Unpaid'"`
}

// TableName returns the table name for GORM
func (SupplierInvoice) TableName() string {
	return "supplier_invoices"
}

// NewSupplierInvoice creates a supplier invoice over the given entries.
// Monetary rounding is whole-unit: gross and nett round half-up, commission
// always rounds up in the house's favor.
func NewSupplierInvoice(invoiceNumber string, supplierID uuid.UUID, links []SupplierInvoiceEntry, items []SupplierInvoiceItem, commissionRate, wages, adjustments, advancePaid decimal.Decimal, createdAt time.Time) (*SupplierInvoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if len(links) == 0 {
		return nil, shared.NewDomainError("INVALID_ENTRIES", "Invoice must settle at least one entry")
	}
	if commissionRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COMMISSION", "Commission rate cannot be negative")
	}

	inv := &SupplierInvoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		SupplierID:        supplierID,
		CommissionRate:    commissionRate,
		Wages:             wages,
		Adjustments:       adjustments,
		AdvancePaid:       advancePaid,
		PaidAmount:        advancePaid,
		Status:            StatusUnpaid,
	}
	if !createdAt.IsZero() {
		inv.CreatedAt = createdAt
	}
	for idx := range links {
		links[idx].InvoiceID = inv.ID
		if links[idx].ID == uuid.Nil {
			links[idx].ID = uuid.New()
		}
	}
	for idx := range items {
		items[idx].InvoiceID = inv.ID
		if items[idx].ID == uuid.Nil {
			items[idx].ID = uuid.New()
		}
	}
	inv.EntryLinks = links
	inv.Items = items
	inv.recalculateTotals()
	// A fresh invoice is always Unpaid, even when an advance was already
	// paid out; the status only moves once settlement payments arrive.

	return inv, nil
}

// Resettle replaces the entry links, items and charge components during an
// update. Totals are recomputed with the same formulas as creation; the
// caller reverts and reapplies the supplier balance around this call.
func (inv *SupplierInvoice) Resettle(supplierID uuid.UUID, links []SupplierInvoiceEntry, items []SupplierInvoiceItem, commissionRate, wages, adjustments, advancePaid decimal.Decimal) error {
	if supplierID == uuid.Nil {
		return shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if len(links) == 0 {
		return shared.NewDomainError("INVALID_ENTRIES", "Invoice must settle at least one entry")
	}
	if commissionRate.IsNegative() {
		return shared.NewDomainError("INVALID_COMMISSION", "Commission rate cannot be negative")
	}

	inv.SupplierID = supplierID
	inv.CommissionRate = commissionRate
	inv.Wages = wages
	inv.Adjustments = adjustments
	inv.AdvancePaid = advancePaid
	for idx := range links {
		links[idx].InvoiceID = inv.ID
		if links[idx].ID == uuid.Nil {
			links[idx].ID = uuid.New()
		}
	}
	for idx := range items {
		items[idx].InvoiceID = inv.ID
		if items[idx].ID == uuid.Nil {
			items[idx].ID = uuid.New()
		}
	}
	inv.EntryLinks = links
	inv.Items = items
	inv.recalculateTotals()
	inv.refreshStatus()
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
	return nil
}

// ApplyPayment accumulates a settlement payment and refreshes the status
func (inv *SupplierInvoice) ApplyPayment(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment cannot be negative")
	}
	inv.PaidAmount = inv.PaidAmount.Add(amount)
	inv.refreshStatus()
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
	return nil
}

// RemainingBalance returns the amount still owed to the supplier
func (inv *SupplierInvoice) RemainingBalance() decimal.Decimal {
	return inv.NettAmount.Sub(inv.PaidAmount)
}

// EntryIDs returns the entries this invoice settles
func (inv *SupplierInvoice) EntryIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(inv.EntryLinks))
	for i, link := range inv.EntryLinks {
		ids[i] = link.EntryID
	}
	return ids
}

// gross = round(sum of item sub-totals)
// commission = ceil(gross * rate / 100)
// nett = round(gross - commission - wages + adjustments)
// finalPayable = round(nett - advance)
func (inv *SupplierInvoice) recalculateTotals() {
	total := decimal.Zero
	for _, item := range inv.Items {
		total = total.Add(item.SubTotal)
	}
	inv.GrossTotal = total.Round(0)
	inv.CommissionAmount = inv.GrossTotal.Mul(inv.CommissionRate).Div(oneHundred).Ceil()
	inv.NettAmount = inv.GrossTotal.Sub(inv.CommissionAmount).Sub(inv.Wages).Add(inv.Adjustments).Round(0)
	inv.FinalPayable = inv.NettAmount.Sub(inv.AdvancePaid).Round(0)
}

func (inv *SupplierInvoice) refreshStatus() {
	switch {
	case inv.PaidAmount.GreaterThanOrEqual(inv.NettAmount):
		inv.Status = StatusPaid
	case inv.PaidAmount.IsPositive():
		inv.Status = StatusPartiallyPaid
	default:
		inv.Status = StatusUnpaid
	}
}
