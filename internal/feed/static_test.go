package feed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilyakhov/swapdesk/internal/clock"
)

func TestStaticFeed_Fetch(t *testing.T) {
	f := NewStaticFeed(0, clock.Immediate)

	entries, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	seenUSDC := 0
	for _, e := range entries {
		if e.Currency == "USDC" {
			seenUSDC++
		}
	}
	// the raw list deliberately carries duplicate currencies,
	// deduplication is the catalog builder's job
	assert.Equal(t, 2, seenUSDC)
}

func TestStaticFeed_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewStaticFeed(time.Second, nil)
	_, err := f.Fetch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStaticFeed_MalformedPayloadMapsToUnavailable(t *testing.T) {
	f := NewStaticFeed(0, clock.Immediate)
	f.payload = []byte("{not json")

	_, err := f.Fetch(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}
