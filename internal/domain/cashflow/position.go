package cashflow

import "github.com/shopspring/decimal"

// Position is the derived money-on-hand snapshot. It is computed by
// replaying transactions, never stored.
type Position struct {
	Total decimal.Decimal `json:"total"`
	Cash  decimal.Decimal `json:"cash"`
	Bank  decimal.Decimal `json:"bank"`
}

// ZeroPosition returns an all-zero position
func ZeroPosition() Position {
	return Position{Total: decimal.Zero, Cash: decimal.Zero, Bank: decimal.Zero}
}

// Replay folds transactions into a position. Income adds to its method,
// Expense subtracts, and Transfer moves amount between methods without
// changing the total.
func Replay(txns []Transaction) Position {
	pos := ZeroPosition()
	for i := range txns {
		pos = pos.apply(&txns[i])
	}
	return pos
}

func (p Position) apply(t *Transaction) Position {
	switch t.Type {
	case TypeIncome:
		p.Total = p.Total.Add(t.Amount)
		p = p.addToMethod(t.Method, t.Amount)
	case TypeExpense:
		p.Total = p.Total.Sub(t.Amount)
		p = p.addToMethod(t.Method, t.Amount.Neg())
	case TypeTransfer:
		p = p.addToMethod(t.Method, t.Amount.Neg())
		p = p.addToMethod(t.ToMethod, t.Amount)
	}
	return p
}

func (p Position) addToMethod(m Method, amount decimal.Decimal) Position {
	switch m {
	case MethodCash:
		p.Cash = p.Cash.Add(amount)
	case MethodBank:
		p.Bank = p.Bank.Add(amount)
	}
	return p
}
