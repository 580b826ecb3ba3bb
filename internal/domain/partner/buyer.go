package partner

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tradeyard/backend/internal/domain/shared"
)

// Buyer represents a buyer bidding at the auction.
// Outstanding is a signed receivable: positive means the buyer owes us.
// It is mutated only through invoice and cash-flow operations, never
// directly by the interface layer.
type Buyer struct {
	shared.BaseAggregateRoot
	BuyerName   string          `gorm:"type:varchar(200);not null"`
	Phone       string          `gorm:"type:varchar(50)"`
	Address     string          `gorm:"type:text"`
	Outstanding decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Buyer) TableName() string {
	return "buyers"
}

// NewBuyer creates a new buyer with a zero outstanding balance
func NewBuyer(name, phone, address string) (*Buyer, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Buyer name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Buyer name cannot exceed 200 characters")
	}

	return &Buyer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BuyerName:         name,
		Phone:             phone,
		Address:           address,
		Outstanding:       decimal.Zero,
	}, nil
}

// Update updates the buyer's basic information
func (b *Buyer) Update(name, phone, address string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Buyer name cannot be empty")
	}
	b.BuyerName = name
	b.Phone = phone
	b.Address = address
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// Charge increases the receivable (an invoice was issued to the buyer)
func (b *Buyer) Charge(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	b.Outstanding = b.Outstanding.Add(amount)
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// Credit decreases the receivable (a payment was received or an invoice
// effect was reverted). The balance may legitimately go negative when the
// buyer holds a credit.
func (b *Buyer) Credit(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	b.Outstanding = b.Outstanding.Sub(amount)
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// HasOutstanding reports whether the buyer carries any balance either way
func (b *Buyer) HasOutstanding() bool {
	return !b.Outstanding.IsZero()
}
