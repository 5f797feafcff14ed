package form

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilyakhov/swapdesk/internal/clock"
	"github.com/ilyakhov/swapdesk/internal/domain"
	"github.com/ilyakhov/swapdesk/internal/feed"
	"github.com/ilyakhov/swapdesk/internal/services/swap"
	"github.com/ilyakhov/swapdesk/pkg/retrier"
)

type fakeFeed struct {
	entries []domain.RawPrice
	err     error
}

func (f *fakeFeed) Fetch(ctx context.Context) ([]domain.RawPrice, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

func entry(currency string, price float64) domain.RawPrice {
	return domain.RawPrice{
		Currency: currency,
		Date:     "2024-02-20T07:10:40Z",
		Price:    decimal.NewFromFloat(price),
	}
}

func newTestController(t *testing.T, src *fakeFeed) *Controller {
	t.Helper()
	exec := swap.NewExecutor(nil, nil, 0, time.Second, clock.Immediate)
	c := NewController(nil, src, exec, nil, decimal.NewFromInt(2500))
	c.retry = retrier.New(retrier.WithInitialInterval(time.Millisecond), retrier.WithMaxRetries(1))
	return c
}

func refreshed(t *testing.T, src *fakeFeed) *Controller {
	t.Helper()
	c := newTestController(t, src)
	require.NoError(t, c.Refresh(context.Background()))
	return c
}

func TestRefresh_DefaultsSelectionToFirstTwoTokens(t *testing.T) {
	c := refreshed(t, &fakeFeed{entries: []domain.RawPrice{
		entry("OSMO", 0.37),
		entry("ATOM", 7),
		entry("WBTC", 26000),
	}})

	s := c.Snapshot()
	require.NotNil(t, s.FromToken)
	require.NotNil(t, s.ToToken)
	assert.Equal(t, "ATOM", s.FromToken.Symbol)
	assert.Equal(t, "OSMO", s.ToToken.Symbol)
	assert.True(t, s.FromBalance.IsPositive(), "ledger must be seeded on first refresh")
}

func TestRefresh_FeedErrorMapsToUnavailable(t *testing.T) {
	c := newTestController(t, &fakeFeed{err: feed.ErrUnavailable})
	err := c.Refresh(context.Background())
	assert.ErrorIs(t, err, feed.ErrUnavailable)
	assert.Empty(t, c.Snapshot().Catalog)
}

func TestRefresh_AllEntriesFilteredMapsToUnavailable(t *testing.T) {
	c := newTestController(t, &fakeFeed{entries: []domain.RawPrice{entry("DUST", 0)}})
	err := c.Refresh(context.Background())
	assert.ErrorIs(t, err, feed.ErrUnavailable)
}

func TestRefresh_RepairsVanishedFromSelection(t *testing.T) {
	src := &fakeFeed{entries: []domain.RawPrice{
		entry("ATOM", 7),
		entry("OSMO", 0.37),
		entry("WBTC", 26000),
	}}
	c := refreshed(t, src)
	require.NoError(t, c.SelectFrom("WBTC"))

	src.entries = []domain.RawPrice{entry("ATOM", 7), entry("OSMO", 0.37)}
	require.NoError(t, c.Refresh(context.Background()))

	s := c.Snapshot()
	assert.Equal(t, "ATOM", s.FromToken.Symbol)
	assert.Equal(t, "OSMO", s.ToToken.Symbol)
}

func TestRefresh_CollisionMovesToSelection(t *testing.T) {
	src := &fakeFeed{entries: []domain.RawPrice{
		entry("ATOM", 7),
		entry("OSMO", 0.37),
		entry("WBTC", 26000),
	}}
	c := refreshed(t, src)
	require.NoError(t, c.SelectFrom("OSMO"))
	require.NoError(t, c.SelectTo("WBTC"))

	// WBTC disappears; the fallback (second entry, OSMO) would collide with from
	src.entries = []domain.RawPrice{entry("ATOM", 7), entry("OSMO", 0.37)}
	require.NoError(t, c.Refresh(context.Background()))

	s := c.Snapshot()
	assert.Equal(t, "OSMO", s.FromToken.Symbol)
	assert.Equal(t, "ATOM", s.ToToken.Symbol)
}

func TestRefresh_SingleTokenLeavesToUnset(t *testing.T) {
	c := refreshed(t, &fakeFeed{entries: []domain.RawPrice{entry("ATOM", 7)}})

	s := c.Snapshot()
	require.NotNil(t, s.FromToken)
	assert.Nil(t, s.ToToken)
	assert.True(t, s.Disabled)
}

func TestReverse_WorksWithUnsetSide(t *testing.T) {
	c := refreshed(t, &fakeFeed{entries: []domain.RawPrice{entry("ATOM", 7)}})

	c.Reverse()
	s := c.Snapshot()
	assert.Nil(t, s.FromToken)
	require.NotNil(t, s.ToToken)
	assert.Equal(t, "ATOM", s.ToToken.Symbol)
}

func TestSetAmount_EditGate(t *testing.T) {
	c := refreshed(t, &fakeFeed{entries: []domain.RawPrice{entry("ATOM", 7), entry("OSMO", 0.37)}})

	assert.True(t, c.SetAmount("abc"))
	assert.Contains(t, c.Snapshot().Errors, MsgInvalidAmount)

	assert.True(t, c.SetAmount("0"))
	assert.Contains(t, c.Snapshot().Errors, MsgAmountNotPositive)

	assert.True(t, c.SetAmount("10"))
	assert.Empty(t, c.Snapshot().Errors)
	assert.Equal(t, "10", c.Snapshot().FromAmount)

	// a second decimal point rejects the edit, the field keeps its value
	assert.False(t, c.SetAmount("1.2.3"))
	assert.Equal(t, "10", c.Snapshot().FromAmount)

	assert.True(t, c.SetAmount(""))
	assert.Equal(t, "", c.Snapshot().FromAmount)
	assert.Empty(t, c.Snapshot().Errors)
}

func TestSnapshot_InsufficientBalanceDisablesSubmission(t *testing.T) {
	c := refreshed(t, &fakeFeed{entries: []domain.RawPrice{entry("ATOM", 7), entry("OSMO", 0.37)}})

	require.True(t, c.SetAmount("99999999"))
	s := c.Snapshot()
	assert.Contains(t, s.Errors, MsgInsufficientBalance)
	assert.True(t, s.Disabled)
}

func TestSubmit_ExecutesSwapAndClearsAmount(t *testing.T) {
	c := refreshed(t, &fakeFeed{entries: []domain.RawPrice{entry("ATOM", 10), entry("OSMO", 1)}})
	require.True(t, c.SetAmount("10"))

	before := c.Snapshot()
	record, err := c.Submit(context.Background())
	require.NoError(t, err)
	require.NotNil(t, record)

	after := c.Snapshot()
	assert.True(t, before.FromBalance.Sub(after.FromBalance).Equal(decimal.NewFromInt(10)))
	assert.True(t, after.ToBalance.Sub(before.ToBalance).Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "", after.FromAmount)
	require.Len(t, after.History, 1)
	assert.Equal(t, record.ID, after.History[0].ID)
}

func TestSubmit_ValidationFailureIsRecoverable(t *testing.T) {
	c := refreshed(t, &fakeFeed{entries: []domain.RawPrice{entry("ATOM", 7), entry("OSMO", 0.37)}})
	require.True(t, c.SetAmount("99999999"))

	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, c.Snapshot().Errors, MsgInsufficientBalance)
	assert.Empty(t, c.Snapshot().History)
}

func TestSubmit_AfterCloseIsDropped(t *testing.T) {
	c := refreshed(t, &fakeFeed{entries: []domain.RawPrice{entry("ATOM", 10), entry("OSMO", 1)}})
	require.True(t, c.SetAmount("1"))
	c.Close()

	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, swap.ErrSessionClosed)
}

func TestSelect_UnknownTokenRejected(t *testing.T) {
	c := refreshed(t, &fakeFeed{entries: []domain.RawPrice{entry("ATOM", 7)}})
	assert.ErrorIs(t, c.SelectFrom("NOPE"), ErrUnknownToken)
}

func TestSetSlippage(t *testing.T) {
	c := newTestController(t, &fakeFeed{})
	assert.Error(t, c.SetSlippage(decimal.NewFromInt(42)))
	assert.NoError(t, c.SetSlippage(decimal.NewFromInt(3)))
	assert.True(t, c.Snapshot().SlippagePct.Equal(decimal.NewFromInt(3)))
}
