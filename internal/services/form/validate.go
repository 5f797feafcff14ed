package form

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ilyakhov/swapdesk/internal/domain"
)

// Validation messages shown in-form. The wording is part of the contract.
const (
	MsgInvalidAmount       = "Please enter a valid amount."
	MsgAmountNotPositive   = "Amount must be greater than zero."
	MsgAmountTooLarge      = "Amount is too large."
	MsgSelectBoth          = "Select both the source and destination tokens."
	MsgSelectDifferent     = "Select two different tokens to swap."
	MsgInsufficientBalance = "Insufficient balance for this swap."
)

var maxAmount = decimal.NewFromInt(1_000_000_000)

// SanitizeAmount strips every character that is not a digit or a decimal
// point from a pending amount edit. The second return value is false when
// the remainder still holds more than one decimal point, in which case the
// edit must be rejected and the field keeps its previous value.
func SanitizeAmount(text string) (string, bool) {
	var b strings.Builder
	dots := 0
	for _, r := range text {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.':
			dots++
			b.WriteRune(r)
		}
	}
	if dots > 1 {
		return "", false
	}
	return b.String(), true
}

// amountErrors derives the discrete text-edit errors for a sanitized,
// non-empty amount. A format failure suppresses the range checks since the
// parsed value would be meaningless.
func amountErrors(text string) []string {
	parsed, err := decimal.NewFromString(text)
	switch {
	case err != nil:
		return []string{MsgInvalidAmount}
	case !parsed.IsPositive():
		return []string{MsgAmountNotPositive}
	case parsed.GreaterThan(maxAmount):
		return []string{MsgAmountTooLarge}
	}
	return nil
}

// Validate re-runs every rule synchronously against the submitted state,
// independent of whatever the UI displayed. It returns the ordered list of
// failures; an empty list means the swap may proceed.
func Validate(from, to *domain.Token, fromBalance decimal.Decimal, rawAmountText string) []string {
	var msgs []string

	parsed, parseErr := decimal.NewFromString(rawAmountText)
	switch {
	case parseErr != nil:
		msgs = append(msgs, MsgInvalidAmount)
	case !parsed.IsPositive():
		msgs = append(msgs, MsgAmountNotPositive)
	case parsed.GreaterThan(maxAmount):
		msgs = append(msgs, MsgAmountTooLarge)
	}

	switch {
	case from == nil || to == nil:
		msgs = append(msgs, MsgSelectBoth)
	case from.Symbol == to.Symbol:
		msgs = append(msgs, MsgSelectDifferent)
	}

	if from != nil && parseErr == nil && parsed.GreaterThan(fromBalance) {
		msgs = append(msgs, MsgInsufficientBalance)
	}

	return msgs
}

// unionErrors merges error lists preserving order and dropping duplicates.
func unionErrors(lists ...[]string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, msg := range list {
			if seen[msg] {
				continue
			}
			seen[msg] = true
			out = append(out, msg)
		}
	}
	return out
}
