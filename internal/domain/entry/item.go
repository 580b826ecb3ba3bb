package entry

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// rateMatchTolerance is the tolerance used when relinking supplier invoice
// lines back to entry items by (product, rate) comparison.
var rateMatchTolerance = decimal.NewFromFloat(0.001)

// EntryItem represents a line item of an entry. Items start blank at intake
// and acquire buyer, rate and weights during auctioning; invoicing later
// stamps the buyer/supplier invoice links onto them.
type EntryItem struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	EntryID           uuid.UUID `gorm:"type:uuid;not null;index"`
	SubSerialNumber   int       `gorm:"not null"`
	ProductID         uuid.UUID `gorm:"type:uuid"`
	ProductName       string    `gorm:"type:varchar(200)"`
	Quantity          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	WeightTracked     bool            `gorm:"not null;default:false"`
	GrossWeight       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ShuteWeight       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	NettWeight        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	RatePerQuantity   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	BuyerID           *uuid.UUID      `gorm:"type:uuid;index"`
	SubTotal          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	InvoiceID         *uuid.UUID      `gorm:"type:uuid;index"`
	SupplierInvoiceID *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName returns the table name for GORM
func (EntryItem) TableName() string {
	return "entry_items"
}

// NewEntryItem creates a blank intake item for a product
func NewEntryItem(entryID, productID uuid.UUID, productName string, quantity decimal.Decimal) EntryItem {
	now := time.Now()
	item := EntryItem{
		ID:          uuid.New(),
		EntryID:     entryID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	item.Recalculate()
	return item
}

// Recalculate refreshes the derived fields after an edit.
// Nett weight is always gross minus shute; the sub-total uses the nett
// weight when the item is weight-tracked with a recorded gross weight,
// quantity otherwise.
func (i *EntryItem) Recalculate() {
	i.NettWeight = i.GrossWeight.Sub(i.ShuteWeight)
	if i.WeightTracked && i.GrossWeight.IsPositive() {
		i.SubTotal = i.NettWeight.Mul(i.RatePerQuantity)
	} else {
		i.SubTotal = i.Quantity.Mul(i.RatePerQuantity)
	}
	i.UpdatedAt = time.Now()
}

// IsAuctioned reports whether the item has been assigned a buyer
func (i *EntryItem) IsAuctioned() bool {
	return i.BuyerID != nil
}

// IsBuyerInvoiced reports whether the item was consumed by a buyer invoice
func (i *EntryItem) IsBuyerInvoiced() bool {
	return i.InvoiceID != nil
}

// MatchesInvoiceLine reports whether this item corresponds to an invoice
// line identified by product and rate. The rate comparison uses a 0.001
// tolerance because invoice lines carry no foreign key back to the item.
func (i *EntryItem) MatchesInvoiceLine(productID uuid.UUID, rate decimal.Decimal) bool {
	if i.ProductID != productID {
		return false
	}
	return i.RatePerQuantity.Sub(rate).Abs().LessThanOrEqual(rateMatchTolerance)
}

// FieldErrors maps failing field names to validation messages
type FieldErrors map[string]string

// HasErrors reports whether any field failed validation
func (f FieldErrors) HasErrors() bool {
	return len(f) > 0
}

// ValidateForAuction returns the set of fields that block saving the item
// during auctioning. The caller must refuse the save while any remain.
func (i *EntryItem) ValidateForAuction() FieldErrors {
	errs := make(FieldErrors)
	if i.ProductID == uuid.Nil {
		errs["productId"] = "Product is required"
	}
	if !i.Quantity.IsPositive() {
		errs["quantity"] = "Quantity must be greater than zero"
	}
	if !i.RatePerQuantity.IsPositive() {
		errs["ratePerQuantity"] = "Rate must be greater than zero"
	}
	if i.BuyerID == nil || *i.BuyerID == uuid.Nil {
		errs["buyerId"] = "Buyer is required"
	}
	return errs
}
