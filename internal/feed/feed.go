// Package feed supplies raw price entries for catalog construction.
package feed

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ilyakhov/swapdesk/internal/domain"
)

// ErrUnavailable is returned when a source yields no usable price data.
// Transport failures of live sources wrap it so the underlying message is
// preserved for the retry screen.
var ErrUnavailable = errors.New("price feed unavailable")

// Feed supplies the raw price list on demand, for the initial load and for
// every retry. There is no schema versioning.
type Feed interface {
	Fetch(ctx context.Context) ([]domain.RawPrice, error)
}
