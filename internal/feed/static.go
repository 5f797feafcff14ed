package feed

import (
	"context"
	_ "embed"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/ilyakhov/swapdesk/internal/clock"
	"github.com/ilyakhov/swapdesk/internal/domain"
)

//go:embed prices.json
var staticPrices []byte

// StaticFeed serves the embedded price list with an optional simulated
// latency. It is the default source; entries with prices that fail to parse
// are handed over as zero-priced so the catalog builder filters them.
type StaticFeed struct {
	latency time.Duration
	sleep   clock.Sleeper
	payload []byte
}

// NewStaticFeed creates the embedded-data feed. A nil sleeper uses real time.
func NewStaticFeed(latency time.Duration, sleep clock.Sleeper) *StaticFeed {
	if sleep == nil {
		sleep = clock.Sleep
	}
	return &StaticFeed{latency: latency, sleep: sleep, payload: staticPrices}
}

func (f *StaticFeed) Fetch(ctx context.Context) ([]domain.RawPrice, error) {
	if err := f.sleep(ctx, f.latency); err != nil {
		return nil, err
	}

	var entries []struct {
		Currency string      `json:"currency"`
		Date     string      `json:"date"`
		Price    json.Number `json:"price"`
	}
	if err := json.Unmarshal(f.payload, &entries); err != nil {
		return nil, errors.Wrapf(ErrUnavailable, "decode static price list: %v", err)
	}

	out := make([]domain.RawPrice, 0, len(entries))
	for _, e := range entries {
		price, err := decimal.NewFromString(e.Price.String())
		if err != nil {
			price = decimal.Zero
		}
		out = append(out, domain.RawPrice{Currency: e.Currency, Date: e.Date, Price: price})
	}
	return out, nil
}
