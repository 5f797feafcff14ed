// Package catalog builds a clean token catalog out of raw price feed entries.
package catalog

import (
	"fmt"
	"sort"
	"time"

	"github.com/ilyakhov/swapdesk/internal/domain"
)

// DefaultIconBaseURL hosts token icons keyed by symbol.
const DefaultIconBaseURL = "https://raw.githubusercontent.com/Switcheo/token-icons/main/tokens"

// IconResolver maps a token symbol to its icon location.
type IconResolver func(symbol string) string

// IconURL returns a resolver templated on the given base URL.
func IconURL(baseURL string) IconResolver {
	if baseURL == "" {
		baseURL = DefaultIconBaseURL
	}
	return func(symbol string) string {
		return fmt.Sprintf("%s/%s.svg", baseURL, symbol)
	}
}

// Build normalizes raw feed entries into a deduplicated catalog sorted
// ascending by symbol. Entries with a non-positive price are discarded.
// When a currency appears more than once, the entry with the latest date
// wins; ties keep the first encountered. Unparsable dates compare as the
// zero time, so they never displace a dated entry.
func Build(raw []domain.RawPrice, icons IconResolver) domain.Catalog {
	if icons == nil {
		icons = IconURL("")
	}

	type candidate struct {
		price domain.RawPrice
		asOf  time.Time
	}
	latest := make(map[string]candidate, len(raw))

	for _, entry := range raw {
		if !entry.Price.IsPositive() {
			continue
		}

		asOf := parseFeedDate(entry.Date)
		existing, seen := latest[entry.Currency]
		if seen && !asOf.After(existing.asOf) {
			continue
		}
		latest[entry.Currency] = candidate{price: entry, asOf: asOf}
	}

	tokens := make(domain.Catalog, 0, len(latest))
	for currency, c := range latest {
		tokens = append(tokens, domain.Token{
			Symbol:  currency,
			Price:   c.price.Price,
			AsOf:    c.asOf,
			IconURL: icons(currency),
		})
	}

	sort.Slice(tokens, func(i, j int) bool {
		return tokens[i].Symbol < tokens[j].Symbol
	})

	return tokens
}

func parseFeedDate(value string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	return time.Time{}
}
