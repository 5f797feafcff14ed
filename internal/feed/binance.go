package feed

import (
	"context"
	"strings"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/ilyakhov/swapdesk/internal/domain"
)

// BinanceFeed reads spot prices from the Binance public API without
// authentication. Symbols quoted in the configured currency are mapped back
// to their base token; tickers carry no per-entry date, entries are stamped
// with the fetch time.
type BinanceFeed struct {
	client  *binance.Client
	quote   string
	limiter *rate.Limiter
}

// NewBinanceFeed creates a Binance-backed feed quoting against quoteCurrency,
// typically a stable coin such as USDT.
func NewBinanceFeed(client *binance.Client, quoteCurrency string) *BinanceFeed {
	return &BinanceFeed{
		client:  client,
		quote:   quoteCurrency,
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
	}
}

func (f *BinanceFeed) Fetch(ctx context.Context) ([]domain.RawPrice, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	prices, err := f.client.NewListPricesService().Do(ctx)
	if err != nil {
		return nil, errors.Wrapf(ErrUnavailable, "binance list prices: %v", err)
	}

	fetchedAt := time.Now().UTC().Format(time.RFC3339)
	out := make([]domain.RawPrice, 0, len(prices))
	for _, p := range prices {
		currency := strings.TrimSuffix(p.Symbol, f.quote)
		if currency == p.Symbol || currency == "" {
			continue
		}
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			continue
		}
		out = append(out, domain.RawPrice{Currency: currency, Date: fetchedAt, Price: price})
	}
	return out, nil
}
