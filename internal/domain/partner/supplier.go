package partner

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tradeyard/backend/internal/domain/shared"
)

// Supplier represents a supplier delivering goods for auction.
// Outstanding is a signed payable: negative means we owe the supplier.
// As with buyers, only invoice and cash-flow operations may mutate it.
type Supplier struct {
	shared.BaseAggregateRoot
	SupplierName string          `gorm:"type:varchar(200);not null"`
	Phone        string          `gorm:"type:varchar(50)"`
	Address      string          `gorm:"type:text"`
	Outstanding  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier with a zero outstanding balance
func NewSupplier(name, phone, address string) (*Supplier, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Supplier name cannot exceed 200 characters")
	}

	return &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SupplierName:      name,
		Phone:             phone,
		Address:           address,
		Outstanding:       decimal.Zero,
	}, nil
}

// Update updates the supplier's basic information
func (s *Supplier) Update(name, phone, address string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}
	s.SupplierName = name
	s.Phone = phone
	s.Address = address
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// AddPayable increases the payable magnitude (a supplier invoice was
// settled against their deliveries); the signed balance moves down.
func (s *Supplier) AddPayable(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	s.Outstanding = s.Outstanding.Sub(amount)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// SettlePayable decreases the payable magnitude (we paid the supplier or a
// supplier invoice effect was reverted); the signed balance moves up.
func (s *Supplier) SettlePayable(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	s.Outstanding = s.Outstanding.Add(amount)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// HasOutstanding reports whether the supplier carries any balance either way
func (s *Supplier) HasOutstanding() bool {
	return !s.Outstanding.IsZero()
}
