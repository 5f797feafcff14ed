// Package swap executes validated swaps as atomic balance transitions.
package swap

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ilyakhov/swapdesk/internal/clock"
	"github.com/ilyakhov/swapdesk/internal/domain"
	"github.com/ilyakhov/swapdesk/internal/services/history"
	"github.com/ilyakhov/swapdesk/internal/services/ledger"
	"github.com/ilyakhov/swapdesk/internal/notify"
)

var (
	// ErrSubmissionInFlight rejects a swap started while another one is
	// still settling. The UI disables the control, the executor defends
	// independently; callers surface no message for it.
	ErrSubmissionInFlight = errors.New("swap submission already in flight")

	// ErrSessionClosed marks results that arrived after teardown. The
	// mutation has been dropped, nothing needs reporting.
	ErrSessionClosed = errors.New("session closed")
)

// Request carries the validated inputs of one swap. Amounts are captured at
// submit time; balances are re-read at settlement time.
type Request struct {
	From     domain.Token
	To       domain.Token
	Amount   decimal.Decimal
	ToAmount decimal.Decimal
	Rate     decimal.Decimal
}

// Executor owns the session's ledger and history and performs the atomic
// balance transition for each swap. A single in-flight flag guards against
// re-entrant submission; all state changes happen under one lock after the
// settlement delay resolves, so readers never observe a partial write.
type Executor struct {
	mu          sync.Mutex
	logger      *zap.Logger
	notifier    notify.Notifier
	sleep       clock.Sleeper
	settleDelay time.Duration

	ledger   ledger.Ledger
	history  *history.Log
	inFlight bool
	closed   bool
}

// NewExecutor creates an executor with an empty ledger and a history log
// bounded to historyCap.
func NewExecutor(logger *zap.Logger, notifier notify.Notifier, historyCap int, settleDelay time.Duration, sleep clock.Sleeper) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if sleep == nil {
		sleep = clock.Sleep
	}
	return &Executor{
		logger:      logger,
		notifier:    notifier,
		sleep:       sleep,
		settleDelay: settleDelay,
		ledger:      ledger.New(),
		history:     history.NewLog(historyCap),
	}
}

// Execute settles one swap. It reserves the in-flight flag, waits out the
// simulated settlement latency, then debits the source and credits the
// destination, floors the source at zero, and prepends a fresh record to
// the history log. If the session was closed during the wait every
// mutation is discarded.
func (e *Executor) Execute(ctx context.Context, req Request) (*domain.SwapRecord, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if e.inFlight {
		e.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	e.inFlight = true
	e.mu.Unlock()

	if err := e.sleep(ctx, e.settleDelay); err != nil {
		e.clearInFlight()
		return nil, errors.Wrap(err, "swap settlement interrupted")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.inFlight = false

	if e.closed {
		return nil, ErrSessionClosed
	}

	record := domain.SwapRecord{
		ID:         uuid.NewString(),
		Timestamp:  time.Now(),
		FromSymbol: req.From.Symbol,
		ToSymbol:   req.To.Symbol,
		FromAmount: req.Amount,
		ToAmount:   req.ToAmount,
		Rate:       req.Rate,
	}

	e.ledger = e.ledger.Debit(req.From.Symbol, req.Amount).Credit(req.To.Symbol, req.ToAmount)
	e.history.Append(record)

	newFromBalance := e.ledger.Balance(req.From.Symbol)

	e.logger.Info("swap executed",
		zap.String("id", record.ID),
		zap.String("from", req.From.Symbol),
		zap.String("to", req.To.Symbol),
		zap.String("amount", req.Amount.String()),
		zap.String("to_amount", req.ToAmount.String()),
		zap.String("rate", req.Rate.String()))

	e.notifier.Success("Swap submitted",
		fmt.Sprintf("%s %s -> %s %s. New %s balance: %s.",
			req.Amount.String(), req.From.Symbol,
			req.ToAmount.String(), req.To.Symbol,
			req.From.Symbol, newFromBalance.String()))

	return &record, nil
}

// Reconcile seeds ledger entries for catalog tokens seen for the first time.
func (e *Executor) Reconcile(cat domain.Catalog, fiatBudget decimal.Decimal) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.ledger = e.ledger.Reconcile(cat, fiatBudget)
}

// Balance returns the current holding for symbol.
func (e *Executor) Balance(symbol string) decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Balance(symbol)
}

// Balances returns a snapshot of the whole ledger.
func (e *Executor) Balances() ledger.Ledger {
	e.mu.Lock()
	defer e.mu.Unlock()
	// the ledger is copy-on-write, handing out the current mapping is safe
	return e.ledger
}

// History returns the swap log, newest first.
func (e *Executor) History() []domain.SwapRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Records()
}

// InFlight reports whether a submission is currently settling.
func (e *Executor) InFlight() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inFlight
}

// Close marks the session as torn down. Swaps settling at that moment are
// dropped without touching the ledger or the history.
func (e *Executor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
}

func (e *Executor) clearInFlight() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inFlight = false
}
