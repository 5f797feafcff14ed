// Package tui drives one swap session through an interactive terminal form.
// It talks to the engine only through the form controller.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/ilyakhov/swapdesk/internal/domain"
	"github.com/ilyakhov/swapdesk/internal/feed"
	"github.com/ilyakhov/swapdesk/internal/services/form"
	"github.com/ilyakhov/swapdesk/internal/services/swap"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	alert     = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#FF6B6B"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(0, 2).
			Bold(true).
			MarginBottom(1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(subtle).
			Padding(0, 1).
			MarginBottom(1)

	okStyle  = lipgloss.NewStyle().Foreground(special)
	errStyle = lipgloss.NewStyle().Foreground(alert)
)

const (
	actionAmount   = "amount"
	actionFrom     = "from"
	actionTo       = "to"
	actionReverse  = "reverse"
	actionSlippage = "slippage"
	actionSwap     = "swap"
	actionRefresh  = "refresh"
	actionQuit     = "quit"
)

// Run loops the interactive session until the user quits or ctx ends.
func Run(ctx context.Context, c *form.Controller) error {
	if err := refreshWithRetry(ctx, c); err != nil {
		return err
	}

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		s := c.Snapshot()
		fmt.Println(headerStyle.Render("swapdesk"))
		fmt.Println(renderForm(s))
		fmt.Println(renderPortfolio(s))
		fmt.Println(renderHistory(s.History))

		action, err := pickAction(s)
		if err != nil {
			return err
		}

		switch action {
		case actionAmount:
			if err := editAmount(c); err != nil {
				return err
			}
		case actionFrom:
			if err := pickToken(c.Snapshot().Catalog, "Source token", c.SelectFrom); err != nil {
				return err
			}
		case actionTo:
			if err := pickToken(c.Snapshot().Catalog, "Destination token", c.SelectTo); err != nil {
				return err
			}
		case actionReverse:
			c.Reverse()
		case actionSlippage:
			if err := pickSlippage(c); err != nil {
				return err
			}
		case actionSwap:
			submit(ctx, c)
		case actionRefresh:
			if err := refreshWithRetry(ctx, c); err != nil {
				return err
			}
		case actionQuit:
			return nil
		}
	}
}

func refreshWithRetry(ctx context.Context, c *form.Controller) error {
	for {
		err := c.Refresh(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, feed.ErrUnavailable) {
			return err
		}

		fmt.Println(errStyle.Render("Price Feed Unavailable"))
		fmt.Println(err.Error())

		var retry bool
		prompt := huh.NewConfirm().
			Title("Retry loading prices?").
			Affirmative("Retry").
			Negative("Quit").
			Value(&retry)
		if err := huh.NewForm(huh.NewGroup(prompt)).Run(); err != nil {
			return err
		}
		if !retry {
			return nil
		}
	}
}

func pickAction(s form.Snapshot) (string, error) {
	options := []huh.Option[string]{
		huh.NewOption("Set amount", actionAmount),
		huh.NewOption("Select source token", actionFrom),
		huh.NewOption("Select destination token", actionTo),
		huh.NewOption("Reverse tokens", actionReverse),
		huh.NewOption("Slippage tolerance", actionSlippage),
	}
	if !s.Disabled {
		options = append(options, huh.NewOption("Swap now", actionSwap))
	}
	options = append(options,
		huh.NewOption("Refresh prices", actionRefresh),
		huh.NewOption("Quit", actionQuit),
	)

	var action string
	sel := huh.NewSelect[string]().
		Title("Action").
		Options(options...).
		Value(&action)
	if err := huh.NewForm(huh.NewGroup(sel)).Run(); err != nil {
		return "", err
	}
	return action, nil
}

func editAmount(c *form.Controller) error {
	amount := c.Snapshot().FromAmount
	input := huh.NewInput().
		Title("Amount to swap").
		Value(&amount)
	if err := huh.NewForm(huh.NewGroup(input)).Run(); err != nil {
		return err
	}
	if !c.SetAmount(amount) {
		fmt.Println(errStyle.Render("Edit rejected: more than one decimal point."))
	}
	return nil
}

func pickToken(cat domain.Catalog, title string, apply func(string) error) error {
	if len(cat) == 0 {
		return nil
	}
	options := make([]huh.Option[string], 0, len(cat))
	for _, t := range cat {
		label := fmt.Sprintf("%-8s %s", t.Symbol, fiat(t.Price))
		options = append(options, huh.NewOption(label, t.Symbol))
	}

	var symbol string
	sel := huh.NewSelect[string]().
		Title(title).
		Options(options...).
		Value(&symbol)
	if err := huh.NewForm(huh.NewGroup(sel)).Run(); err != nil {
		return err
	}
	return apply(symbol)
}

func pickSlippage(c *form.Controller) error {
	options := make([]huh.Option[string], 0, len(domain.SlippageOptions))
	for _, opt := range domain.SlippageOptions {
		options = append(options, huh.NewOption(opt.String()+"%", opt.String()))
	}

	var choice string
	sel := huh.NewSelect[string]().
		Title("Slippage tolerance").
		Options(options...).
		Value(&choice)
	if err := huh.NewForm(huh.NewGroup(sel)).Run(); err != nil {
		return err
	}

	pct, err := decimal.NewFromString(choice)
	if err != nil {
		return err
	}
	return c.SetSlippage(pct)
}

func submit(ctx context.Context, c *form.Controller) {
	fmt.Println("Swapping...")
	record, err := c.Submit(ctx)
	switch {
	case err == nil:
		fmt.Println(okStyle.Render("Swap submitted: " + record.String()))
	case errors.Is(err, form.ErrValidation):
		// messages are rendered with the next snapshot
	case errors.Is(err, swap.ErrSubmissionInFlight):
		// control should have been disabled, nothing to report
	default:
		fmt.Println(errStyle.Render("Swap failed: " + err.Error()))
	}
}

func renderForm(s form.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s\n", tokenLine(s.FromToken, s.FromBalance))
	fmt.Fprintf(&b, "To:   %s\n", tokenLine(s.ToToken, s.ToBalance))
	fmt.Fprintf(&b, "Amount: %s\n", orDash(s.FromAmount))

	if s.Quote.HasRate() && s.FromToken != nil && s.ToToken != nil {
		fmt.Fprintf(&b, "Rate: 1 %s = %s %s\n", s.FromToken.Symbol, s.Quote.Rate.Round(8).String(), s.ToToken.Symbol)
		fmt.Fprintf(&b, "You receive (est.): %s %s\n", s.Quote.ToAmount.Round(6).String(), s.ToToken.Symbol)
		fmt.Fprintf(&b, "Minimum received (%s%% slippage): %s %s\n",
			s.SlippagePct.String(), s.Quote.MinReceived.Round(6).String(), s.ToToken.Symbol)
		fmt.Fprintf(&b, "USD value: %s\n", fiat(s.Quote.ToFiat))
	}
	if !s.LastUpdated.IsZero() {
		fmt.Fprintf(&b, "Prices updated %s\n", s.LastUpdated.Format("15:04:05"))
	}

	for _, msg := range s.Errors {
		b.WriteString(errStyle.Render("! "+msg) + "\n")
	}

	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func renderPortfolio(s form.Snapshot) string {
	var b strings.Builder
	b.WriteString("Portfolio\n")
	total := decimal.Zero
	for _, t := range s.Catalog {
		balance := s.Balances.Balance(t.Symbol)
		if balance.IsZero() {
			continue
		}
		value := balance.Mul(t.Price)
		total = total.Add(value)
		fmt.Fprintf(&b, "%-8s %14s  %s\n", t.Symbol, balance.Round(6).String(), fiat(value))
	}
	fmt.Fprintf(&b, "Total %s", fiat(total))
	return panelStyle.Render(b.String())
}

func renderHistory(records []domain.SwapRecord) string {
	if len(records) == 0 {
		return panelStyle.Render("No swaps yet")
	}
	var b strings.Builder
	b.WriteString("Recent swaps\n")
	for _, r := range records {
		fmt.Fprintf(&b, "%s  %s\n", r.Timestamp.Format("Jan 2 15:04"), r.String())
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func tokenLine(t *domain.Token, balance decimal.Decimal) string {
	if t == nil {
		return "—"
	}
	return fmt.Sprintf("%s (%s, balance %s)", t.Symbol, fiat(t.Price), balance.Round(6).String())
}

func fiat(v decimal.Decimal) string {
	return "$" + v.StringFixed(2)
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
