package form

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ilyakhov/swapdesk/internal/domain"
)

func tok(symbol string, price int64) *domain.Token {
	return &domain.Token{Symbol: symbol, Price: decimal.NewFromInt(price)}
}

func TestSanitizeAmount(t *testing.T) {
	tests := []struct {
		in   string
		out  string
		ok   bool
		name string
	}{
		{name: "plain digits", in: "123", out: "123", ok: true},
		{name: "strips letters", in: "12a3", out: "123", ok: true},
		{name: "strips minus", in: "-5", out: "5", ok: true},
		{name: "keeps one dot", in: "1.5", out: "1.5", ok: true},
		{name: "second dot rejects", in: "1.2.3", ok: false},
		{name: "lone dot accepted as text", in: ".", out: ".", ok: true},
		{name: "strips everything", in: "abc", out: "", ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, ok := SanitizeAmount(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.out, out)
			}
		})
	}
}

func TestValidate_MessageOrdering(t *testing.T) {
	balance := decimal.NewFromInt(100)

	tests := []struct {
		name string
		from *domain.Token
		to   *domain.Token
		text string
		want []string
	}{
		{
			name: "unparsable amount",
			from: tok("A", 2), to: tok("B", 4),
			text: ".",
			want: []string{MsgInvalidAmount},
		},
		{
			name: "zero amount",
			from: tok("A", 2), to: tok("B", 4),
			text: "0",
			want: []string{MsgAmountNotPositive},
		},
		{
			name: "huge amount also exceeds balance",
			from: tok("A", 2), to: tok("B", 4),
			text: "1000000001",
			want: []string{MsgAmountTooLarge, MsgInsufficientBalance},
		},
		{
			name: "missing selection",
			from: nil, to: tok("B", 4),
			text: "10",
			want: []string{MsgSelectBoth},
		},
		{
			name: "same token both sides",
			from: tok("A", 2), to: tok("A", 2),
			text: "10",
			want: []string{MsgSelectDifferent},
		},
		{
			name: "amount exceeds balance",
			from: tok("A", 2), to: tok("B", 4),
			text: "101",
			want: []string{MsgInsufficientBalance},
		},
		{
			name: "valid input",
			from: tok("A", 2), to: tok("B", 4),
			text: "10",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.from, tt.to, balance, tt.text))
		})
	}
}

func TestValidate_FormatErrorSuppressesRangeAndBalance(t *testing.T) {
	msgs := Validate(tok("A", 2), tok("B", 4), decimal.NewFromInt(1), "..")
	assert.Equal(t, []string{MsgInvalidAmount}, msgs)
}

func TestUnionErrors_DropsDuplicates(t *testing.T) {
	got := unionErrors(
		[]string{MsgInvalidAmount, MsgSelectDifferent},
		[]string{MsgSelectDifferent, MsgInsufficientBalance},
	)
	assert.Equal(t, []string{MsgInvalidAmount, MsgSelectDifferent, MsgInsufficientBalance}, got)
}
