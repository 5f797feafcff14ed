package feed

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	hyperliquid "github.com/sonirico/go-hyperliquid"

	"github.com/ilyakhov/swapdesk/internal/domain"
)

// HyperliquidFeed reads mid prices from the Hyperliquid public Info API.
// Mids are keyed by base coin and quoted in USD.
type HyperliquidFeed struct {
	info *hyperliquid.Info
}

// NewHyperliquidFeed creates a Hyperliquid-backed feed.
func NewHyperliquidFeed(info *hyperliquid.Info) *HyperliquidFeed {
	return &HyperliquidFeed{info: info}
}

func (f *HyperliquidFeed) Fetch(ctx context.Context) ([]domain.RawPrice, error) {
	if f.info == nil {
		return nil, errors.Wrap(ErrUnavailable, "hyperliquid info client is nil")
	}

	mids, err := f.info.AllMids(ctx)
	if err != nil {
		return nil, errors.Wrapf(ErrUnavailable, "hyperliquid all mids: %v", err)
	}

	fetchedAt := time.Now().UTC().Format(time.RFC3339)
	out := make([]domain.RawPrice, 0, len(mids))
	for coin, mid := range mids {
		price, err := decimal.NewFromString(mid)
		if err != nil {
			continue
		}
		out = append(out, domain.RawPrice{Currency: coin, Date: fetchedAt, Price: price})
	}
	return out, nil
}
