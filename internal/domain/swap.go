package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SwapRecord is an immutable record of one executed swap.
type SwapRecord struct {
	ID         string
	Timestamp  time.Time
	FromSymbol string
	ToSymbol   string
	FromAmount decimal.Decimal
	ToAmount   decimal.Decimal
	Rate       decimal.Decimal
}

// String returns a human-readable string representation.
func (r *SwapRecord) String() string {
	return fmt.Sprintf("%s %s -> %s %s @ %s",
		r.FromAmount.String(), r.FromSymbol, r.ToAmount.String(), r.ToSymbol, r.Rate.String())
}
