// Package quote derives exchange rates and amounts for a prospective swap.
package quote

import (
	"github.com/shopspring/decimal"

	"github.com/ilyakhov/swapdesk/internal/domain"
)

var oneHundred = decimal.NewFromInt(100)

// Quote is a pure derivation over the current form inputs. It is recomputed
// from scratch on every input change; a zero Rate means no rate is available.
type Quote struct {
	// Rate units of the destination token per one source token.
	Rate decimal.Decimal
	// ParsedAmount numeric value of the raw amount text, zero when unparsable.
	ParsedAmount decimal.Decimal
	// ToAmount estimated destination amount before slippage.
	ToAmount decimal.Decimal
	// MinReceived destination amount after subtracting the slippage tolerance.
	MinReceived decimal.Decimal
	// FromFiat fiat valuation of the source amount.
	FromFiat decimal.Decimal
	// ToFiat fiat valuation of the destination amount.
	ToFiat decimal.Decimal
}

// HasRate reports whether both tokens were present and a rate was derived.
func (q Quote) HasRate() bool {
	return q.Rate.IsPositive()
}

// Compute builds a quote for swapping amountText of from into to with the
// given slippage tolerance in percent. Either token may be nil while the
// user is still selecting; all derived figures degrade to zero.
func Compute(from, to *domain.Token, amountText string, slippagePct decimal.Decimal) Quote {
	var q Quote

	if parsed, err := decimal.NewFromString(amountText); err == nil {
		q.ParsedAmount = parsed
	}

	if from != nil && to != nil && from.Price.IsPositive() && to.Price.IsPositive() {
		q.Rate = from.Price.Div(to.Price)
		q.ToAmount = q.ParsedAmount.Mul(q.Rate)
		q.MinReceived = q.ToAmount.Mul(decimal.NewFromInt(1).Sub(slippagePct.Div(oneHundred)))
	}

	if from != nil {
		q.FromFiat = FiatValue(*from, q.ParsedAmount)
	}
	if to != nil {
		q.ToFiat = FiatValue(*to, q.ToAmount)
	}

	return q
}

// FiatValue returns the fiat valuation of holding amount units of token.
func FiatValue(token domain.Token, amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(token.Price)
}
