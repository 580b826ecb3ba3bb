package cashflow

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradeyard/backend/internal/domain/shared"
)

// TransactionType classifies the direction of money movement
type TransactionType string

const (
	TypeIncome   TransactionType = "Income"
	TypeExpense  TransactionType = "Expense"
	TypeTransfer TransactionType = "Transfer"
)

// IsValid checks whether the transaction type is known
func (t TransactionType) IsValid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypeTransfer:
		return true
	}
	return false
}

// Method is the payment instrument the money moved through
type Method string

const (
	MethodCash Method = "Cash"
	MethodBank Method = "Bank"
)

// IsValid checks whether the method is known
func (m Method) IsValid() bool {
	return m == MethodCash || m == MethodBank
}

// Categories with ledger-level meaning. Other category strings are free-form
// labels and carry no behavior.
const (
	CategoryAdvancePayment  = "Advance Payment"
	CategorySupplierPayment = "Supplier Payment"
)

// UUIDList stores a uuid slice as a JSON column
type UUIDList []uuid.UUID

// Value implements driver.Valuer
func (l UUIDList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner
func (l *UUIDList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return fmt.Errorf("cannot scan %T into UUIDList", value)
}

// Contains reports whether the list holds the given id
func (l UUIDList) Contains(id uuid.UUID) bool {
	for _, candidate := range l {
		if candidate == id {
			return true
		}
	}
	return false
}

// ContainsAll reports whether every element of other appears in the list
func (l UUIDList) ContainsAll(other UUIDList) bool {
	for _, id := range other {
		if !l.Contains(id) {
			return false
		}
	}
	return true
}

// Transaction is a single ledger movement. Income and Expense rows may be
// tied to a buyer or supplier and to the invoices or entries they settle;
// Transfers only move money between methods and never touch a partner
// balance.
type Transaction struct {
	shared.BaseAggregateRoot
	Date              time.Time       `gorm:"type:date;not null;index"`
	Type              TransactionType `gorm:"type:varchar(10);not null;index"`
	Category          string          `gorm:"type:varchar(50)"`
	EntityID          *uuid.UUID      `gorm:"type:uuid;index"`
	EntityName        string          `gorm:"type:varchar(200)"`
	Amount            decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Discount          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Method            Method          `gorm:"type:varchar(10);not null"`
	ToMethod          Method          `gorm:"type:varchar(10)"`
	Reference         string          `gorm:"type:varchar(100)"`
	Description       string          `gorm:"type:text"`
	RelatedEntryIDs   UUIDList        `gorm:"type:text"`
	RelatedInvoiceIDs UUIDList        `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Transaction) TableName() string {
	return "cash_flow_transactions"
}

// NewTransaction creates a ledger transaction after validating its shape
func NewTransaction(date time.Time, txnType TransactionType, category string, entityID *uuid.UUID, entityName string, amount, discount decimal.Decimal, method, toMethod Method, reference, description string, relatedEntryIDs, relatedInvoiceIDs UUIDList) (*Transaction, error) {
	if err := validateShape(txnType, amount, method, toMethod); err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = time.Now()
	}

	return &Transaction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Date:              date,
		Type:              txnType,
		Category:          category,
		EntityID:          entityID,
		EntityName:        entityName,
		Amount:            amount,
		Discount:          discount,
		Method:            method,
		ToMethod:          toMethod,
		Reference:         reference,
		Description:       description,
		RelatedEntryIDs:   relatedEntryIDs,
		RelatedInvoiceIDs: relatedInvoiceIDs,
	}, nil
}

// Revise replaces the transaction's fields during an update. The caller is
// responsible for reverting the old balance effect before calling this and
// reapplying the new one afterwards.
func (t *Transaction) Revise(date time.Time, txnType TransactionType, category string, entityID *uuid.UUID, entityName string, amount, discount decimal.Decimal, method, toMethod Method, reference, description string, relatedEntryIDs, relatedInvoiceIDs UUIDList) error {
	if err := validateShape(txnType, amount, method, toMethod); err != nil {
		return err
	}
	if date.IsZero() {
		date = t.Date
	}

	t.Date = date
	t.Type = txnType
	t.Category = category
	t.EntityID = entityID
	t.EntityName = entityName
	t.Amount = amount
	t.Discount = discount
	t.Method = method
	t.ToMethod = toMethod
	t.Reference = reference
	t.Description = description
	t.RelatedEntryIDs = relatedEntryIDs
	t.RelatedInvoiceIDs = relatedInvoiceIDs
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// CreditAmount is the value an Income transaction settles against the buyer:
// cash received plus any discount granted at payment time
func (t *Transaction) CreditAmount() decimal.Decimal {
	return t.Amount.Add(t.Discount)
}

// IsAdvancePayment reports whether this is a standalone supplier advance
func (t *Transaction) IsAdvancePayment() bool {
	return t.Type == TypeExpense && t.Category == CategoryAdvancePayment
}

// IsSupplierPayment reports whether this settles a supplier invoice
func (t *Transaction) IsSupplierPayment() bool {
	return t.Type == TypeExpense && t.Category == CategorySupplierPayment
}

// Unlink removes an invoice reference, leaving the transaction standing as
// an unattached credit. Used when a supplier invoice with an advance is
// deleted.
func (t *Transaction) Unlink(invoiceID uuid.UUID) {
	var kept UUIDList
	for _, id := range t.RelatedInvoiceIDs {
		if id != invoiceID {
			kept = append(kept, id)
		}
	}
	t.RelatedInvoiceIDs = kept
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

func validateShape(txnType TransactionType, amount decimal.Decimal, method, toMethod Method) error {
	if !txnType.IsValid() {
		return shared.NewDomainError("INVALID_TYPE", "Unknown transaction type")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_METHOD", "Unknown payment method")
	}
	if txnType == TypeTransfer {
		if !toMethod.IsValid() {
			return shared.NewDomainError("INVALID_METHOD", "Transfer requires a destination method")
		}
		if toMethod == method {
			return shared.NewDomainError("INVALID_METHOD", "Transfer source and destination must differ")
		}
	}
	return nil
}
