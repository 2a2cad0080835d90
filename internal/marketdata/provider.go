// Package marketdata fetches quotes, fundamentals and price history
// from remote providers behind a rate limit and retry policy.
package marketdata

import (
	"context"
	"errors"

	"stock-advisor/internal/types"
)

// ErrNoData means the provider has no record of the symbol. It is a
// terminal condition: callers convert it into a SKIP result and the
// retry layer never retries it.
var ErrNoData = errors.New("marketdata: no data for symbol")

// Provider is the read-side market data contract.
type Provider interface {
	// Profile returns the fundamental snapshot for a symbol.
	Profile(ctx context.Context, symbol string) (types.FundamentalProfile, error)
	// History returns up to days of daily candles, oldest first.
	History(ctx context.Context, symbol string, days int) ([]types.Candle, error)
	// Exchange returns the listing exchange name, best effort.
	Exchange(ctx context.Context, symbol string) (string, error)
}
