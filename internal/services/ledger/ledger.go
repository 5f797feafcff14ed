// Package ledger tracks per-token holdings for the lifetime of a session.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/ilyakhov/swapdesk/internal/domain"
)

// seedPrecision is the number of decimal places a seeded balance is rounded to.
const seedPrecision = 4

// Ledger maps token symbol to a non-negative holding. Operations return a new
// ledger so callers can swap the whole mapping atomically under their own lock.
type Ledger map[string]decimal.Decimal

// New returns an empty ledger.
func New() Ledger {
	return Ledger{}
}

// Balance returns the holding for symbol, zero if the symbol was never seeded.
func (l Ledger) Balance(symbol string) decimal.Decimal {
	if amount, ok := l[symbol]; ok {
		return amount
	}
	return decimal.Zero
}

// Has reports whether the symbol has ever been seeded or credited.
func (l Ledger) Has(symbol string) bool {
	_, ok := l[symbol]
	return ok
}

// Reconcile seeds every catalog token missing from the ledger with
// fiatBudget / token.Price rounded to four decimal places and floored at
// zero. Existing entries are authoritative and left untouched; symbols no
// longer in the catalog keep their balance.
func (l Ledger) Reconcile(cat domain.Catalog, fiatBudget decimal.Decimal) Ledger {
	next := l.clone(len(cat))
	for _, token := range cat {
		if _, ok := next[token.Symbol]; ok {
			continue
		}
		if !token.Price.IsPositive() {
			continue
		}
		seed := fiatBudget.Div(token.Price).Round(seedPrecision)
		if seed.IsNegative() {
			seed = decimal.Zero
		}
		next[token.Symbol] = seed
	}
	return next
}

// Debit returns a ledger with the symbol's holding decreased by amount.
// The result is floored at zero so float drift can never leave a negative
// balance; rejecting overdrafts is the validator's job.
func (l Ledger) Debit(symbol string, amount decimal.Decimal) Ledger {
	next := l.clone(1)
	balance := next.Balance(symbol).Sub(amount)
	if balance.IsNegative() {
		balance = decimal.Zero
	}
	next[symbol] = balance
	return next
}

// Credit returns a ledger with the symbol's holding increased by amount.
func (l Ledger) Credit(symbol string, amount decimal.Decimal) Ledger {
	next := l.clone(1)
	next[symbol] = next.Balance(symbol).Add(amount)
	return next
}

func (l Ledger) clone(extra int) Ledger {
	next := make(Ledger, len(l)+extra)
	for symbol, amount := range l {
		next[symbol] = amount
	}
	return next
}
