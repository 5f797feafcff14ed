// Package domain defines core data structures shared across the swap engine.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawPrice is a single entry of the raw price feed.
type RawPrice struct {
	// Currency token symbol as reported by the feed.
	Currency string
	// Date ISO-8601 timestamp of the quote.
	Date string
	// Price fiat price of one unit. Zero means the feed entry was unusable.
	Price decimal.Decimal
}

// Token is an immutable snapshot of a tradable token derived from the feed.
type Token struct {
	// Symbol unique token symbol.
	Symbol string
	// Price fiat price of one unit, always positive.
	Price decimal.Decimal
	// AsOf timestamp of the feed entry the price was taken from.
	AsOf time.Time
	// IconURL resolved icon location for presentation layers.
	IconURL string
}

// Catalog is a deduplicated list of tokens sorted ascending by symbol.
type Catalog []Token

// Lookup returns the token with the given symbol, if present.
func (c Catalog) Lookup(symbol string) (Token, bool) {
	for _, t := range c {
		if t.Symbol == symbol {
			return t, true
		}
	}
	return Token{}, false
}

// Symbols returns catalog symbols in catalog order.
func (c Catalog) Symbols() []string {
	out := make([]string, 0, len(c))
	for _, t := range c {
		out = append(out, t.Symbol)
	}
	return out
}
