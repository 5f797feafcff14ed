package domain

import "github.com/shopspring/decimal"

// SlippageOptions is the fixed menu of slippage tolerances, in percent.
var SlippageOptions = []decimal.Decimal{
	decimal.NewFromFloat(0.1),
	decimal.NewFromFloat(0.5),
	decimal.NewFromInt(1),
	decimal.NewFromInt(3),
}

// DefaultSlippage is the tolerance selected when a session starts.
var DefaultSlippage = decimal.NewFromFloat(0.5)

// IsValidSlippage checks that pct is one of the menu values.
func IsValidSlippage(pct decimal.Decimal) bool {
	for _, opt := range SlippageOptions {
		if opt.Equal(pct) {
			return true
		}
	}
	return false
}
