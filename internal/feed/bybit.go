package feed

import (
	"context"
	"strings"
	"time"

	"github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/ilyakhov/swapdesk/internal/domain"
)

// BybitFeed reads spot tickers from the Bybit V5 public API.
type BybitFeed struct {
	client *bybit.Client
	quote  string
}

// NewBybitFeed creates a Bybit-backed feed quoting against quoteCurrency.
func NewBybitFeed(client *bybit.Client, quoteCurrency string) *BybitFeed {
	return &BybitFeed{client: client, quote: quoteCurrency}
}

func (f *BybitFeed) Fetch(ctx context.Context) ([]domain.RawPrice, error) {
	result, err := f.client.V5().Market().GetTickers(bybit.V5GetTickersParam{
		Category: "spot",
	})
	if err != nil {
		return nil, errors.Wrapf(ErrUnavailable, "bybit spot tickers: %v", err)
	}

	fetchedAt := time.Now().UTC().Format(time.RFC3339)
	list := result.Result.Spot.List
	out := make([]domain.RawPrice, 0, len(list))
	for _, ticker := range list {
		symbol := string(ticker.Symbol)
		currency := strings.TrimSuffix(symbol, f.quote)
		if currency == symbol || currency == "" {
			continue
		}
		price, err := decimal.NewFromString(ticker.LastPrice)
		if err != nil {
			continue
		}
		out = append(out, domain.RawPrice{Currency: currency, Date: fetchedAt, Price: price})
	}
	return out, nil
}
