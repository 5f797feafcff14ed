// Package form owns the session's mutable state and orchestrates catalog
// refresh, validation, and swap submission.
package form

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ilyakhov/swapdesk/internal/domain"
	"github.com/ilyakhov/swapdesk/internal/feed"
	"github.com/ilyakhov/swapdesk/internal/services/catalog"
	"github.com/ilyakhov/swapdesk/internal/services/ledger"
	"github.com/ilyakhov/swapdesk/internal/services/quote"
	"github.com/ilyakhov/swapdesk/internal/services/swap"
	"github.com/ilyakhov/swapdesk/pkg/retrier"
)

// ErrValidation marks a submission rejected by the validation rules. The
// messages are available through Snapshot().Errors.
var ErrValidation = errors.New("swap rejected by validation")

// ErrUnknownToken is returned when a selection names a symbol missing from
// the current catalog.
var ErrUnknownToken = errors.New("unknown token")

// Executor settles validated swaps and owns ledger and history.
type Executor interface {
	Execute(ctx context.Context, req swap.Request) (*domain.SwapRecord, error)
	Reconcile(cat domain.Catalog, fiatBudget decimal.Decimal)
	Balance(symbol string) decimal.Decimal
	Balances() ledger.Ledger
	History() []domain.SwapRecord
	InFlight() bool
	Close()
}

// Controller drives one swap-form session. All fields are guarded by mu;
// the two latency points (feed fetch, swap settlement) run outside the lock
// and re-read state when they resume.
type Controller struct {
	mu     sync.Mutex
	logger *zap.Logger
	source feed.Feed
	exec   Executor
	icons  catalog.IconResolver
	retry  *retrier.Retrier

	fiatBudget decimal.Decimal

	catalog     domain.Catalog
	fromSymbol  string
	toSymbol    string
	fromAmount  string
	slippagePct decimal.Decimal
	editErrors  []string
	closed      bool
}

// NewController creates a session over the given feed and executor. The
// catalog is empty until the first Refresh.
func NewController(logger *zap.Logger, source feed.Feed, exec Executor, icons catalog.IconResolver, fiatBudget decimal.Decimal) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		logger:      logger,
		source:      source,
		exec:        exec,
		icons:       icons,
		retry:       retrier.New(),
		fiatBudget:  fiatBudget,
		fromAmount:  "100",
		slippagePct: domain.DefaultSlippage,
	}
}

// Refresh fetches the raw feed, rebuilds the catalog wholesale, seeds newly
// seen tokens, and repairs the selection. An empty or failed feed maps onto
// feed.ErrUnavailable; the previous catalog is kept so retry starts from a
// known state.
func (c *Controller) Refresh(ctx context.Context) error {
	var raw []domain.RawPrice
	err := c.retry.Do(ctx, func(ctx context.Context) error {
		var fetchErr error
		raw, fetchErr = c.source.Fetch(ctx)
		return fetchErr
	})
	if err != nil {
		if errors.Is(err, feed.ErrUnavailable) || errors.Is(err, context.Canceled) {
			return err
		}
		return errors.Wrapf(feed.ErrUnavailable, "fetch price feed: %v", err)
	}

	next := catalog.Build(raw, c.icons)
	if len(next) == 0 {
		return errors.Wrap(feed.ErrUnavailable, "feed returned no usable tokens")
	}

	c.exec.Reconcile(next, c.fiatBudget)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return swap.ErrSessionClosed
	}
	c.catalog = next
	c.repairSelectionLocked()

	c.logger.Info("catalog refreshed",
		zap.Int("tokens", len(next)),
		zap.String("from", c.fromSymbol),
		zap.String("to", c.toSymbol))
	return nil
}

// repairSelectionLocked keeps selected symbols that survived the refresh and
// falls back to the first (from) or second (to) catalog entry otherwise. A
// collision moves "to" to the first symbol different from "from", or unsets
// it when none exists.
func (c *Controller) repairSelectionLocked() {
	if _, ok := c.catalog.Lookup(c.fromSymbol); !ok || c.fromSymbol == "" {
		c.fromSymbol = ""
		if len(c.catalog) > 0 {
			c.fromSymbol = c.catalog[0].Symbol
		}
	}
	if _, ok := c.catalog.Lookup(c.toSymbol); !ok || c.toSymbol == "" {
		c.toSymbol = ""
		if len(c.catalog) > 1 {
			c.toSymbol = c.catalog[1].Symbol
		}
	}
	if c.toSymbol == c.fromSymbol {
		c.toSymbol = ""
		for _, t := range c.catalog {
			if t.Symbol != c.fromSymbol {
				c.toSymbol = t.Symbol
				break
			}
		}
	}
}

// SelectFrom sets the source token.
func (c *Controller) SelectFrom(symbol string) error {
	return c.selectToken(&c.fromSymbol, symbol)
}

// SelectTo sets the destination token.
func (c *Controller) SelectTo(symbol string) error {
	return c.selectToken(&c.toSymbol, symbol)
}

func (c *Controller) selectToken(field *string, symbol string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.catalog.Lookup(symbol); !ok {
		return errors.Wrap(ErrUnknownToken, symbol)
	}
	*field = symbol
	return nil
}

// Reverse swaps the source and destination selection, including when one
// side is unset.
func (c *Controller) Reverse() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fromSymbol, c.toSymbol = c.toSymbol, c.fromSymbol
}

// SetAmount applies a pending amount edit. Characters other than digits and
// a decimal point are stripped; an edit that still holds a second decimal
// point is rejected outright and the field keeps its previous value. The
// return value reports whether the edit was accepted.
func (c *Controller) SetAmount(text string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if text == "" {
		c.fromAmount = ""
		c.editErrors = nil
		return true
	}

	sanitized, ok := SanitizeAmount(text)
	if !ok {
		return false
	}
	c.fromAmount = sanitized
	c.editErrors = amountErrors(sanitized)
	return true
}

// SetSlippage selects a tolerance from the fixed menu.
func (c *Controller) SetSlippage(pct decimal.Decimal) error {
	if !domain.IsValidSlippage(pct) {
		return errors.Errorf("slippage %s%% is not one of the allowed options", pct.String())
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slippagePct = pct
	return nil
}

// Snapshot is an immutable view of the form state with every quote figure
// and validation message recomputed from scratch.
type Snapshot struct {
	Catalog     domain.Catalog
	FromToken   *domain.Token
	ToToken     *domain.Token
	FromAmount  string
	SlippagePct decimal.Decimal
	Quote       quote.Quote
	FromBalance decimal.Decimal
	ToBalance   decimal.Decimal
	Balances    ledger.Ledger
	History     []domain.SwapRecord
	Errors      []string
	Disabled    bool
	InFlight    bool
	LastUpdated time.Time
}

// Snapshot derives the current view. Pure recomputation over the state
// under the lock, no caching.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{
		Catalog:     c.catalog,
		FromAmount:  c.fromAmount,
		SlippagePct: c.slippagePct,
		Balances:    c.exec.Balances(),
		History:     c.exec.History(),
		InFlight:    c.exec.InFlight(),
	}

	if t, ok := c.catalog.Lookup(c.fromSymbol); ok {
		token := t
		s.FromToken = &token
		s.FromBalance = c.exec.Balance(token.Symbol)
	}
	if t, ok := c.catalog.Lookup(c.toSymbol); ok {
		token := t
		s.ToToken = &token
		s.ToBalance = c.exec.Balance(token.Symbol)
	}

	s.Quote = quote.Compute(s.FromToken, s.ToToken, c.fromAmount, c.slippagePct)

	var selection, balance []string
	if s.FromToken != nil && s.ToToken != nil && s.FromToken.Symbol == s.ToToken.Symbol {
		selection = append(selection, MsgSelectDifferent)
	}
	if s.FromToken != nil && s.Quote.ParsedAmount.GreaterThan(s.FromBalance) {
		balance = append(balance, MsgInsufficientBalance)
	}
	s.Errors = unionErrors(c.editErrors, selection, balance)

	s.Disabled = s.FromToken == nil || s.ToToken == nil ||
		!s.Quote.ParsedAmount.IsPositive() ||
		s.Quote.ParsedAmount.GreaterThan(s.FromBalance) ||
		len(s.Errors) > 0

	if s.FromToken != nil && s.ToToken != nil {
		s.LastUpdated = s.FromToken.AsOf
		if s.ToToken.AsOf.After(s.LastUpdated) {
			s.LastUpdated = s.ToToken.AsOf
		}
	}

	return s
}

// Submit re-validates synchronously and hands the swap to the executor.
// Validation failures return ErrValidation with the messages stored for the
// next Snapshot; a successful settlement clears the amount field.
func (c *Controller) Submit(ctx context.Context) (*domain.SwapRecord, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, swap.ErrSessionClosed
	}

	s := c.snapshotLocked()
	msgs := Validate(s.FromToken, s.ToToken, s.FromBalance, c.fromAmount)
	if len(msgs) > 0 {
		c.editErrors = msgs
		c.mu.Unlock()
		return nil, ErrValidation
	}

	req := swap.Request{
		From:     *s.FromToken,
		To:       *s.ToToken,
		Amount:   s.Quote.ParsedAmount,
		ToAmount: s.Quote.ToAmount,
		Rate:     s.Quote.Rate,
	}
	c.mu.Unlock()

	record, err := c.exec.Execute(ctx, req)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if !c.closed {
		c.fromAmount = ""
		c.editErrors = nil
	}
	c.mu.Unlock()

	return record, nil
}

// Close tears the session down. Refreshes and swaps resolving afterwards
// are discarded.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.exec.Close()
}
