package feed

import (
	"context"
	"errors"

	"github.com/sanketkarwalink/nifty-bees-sanket/internal/model"
)

// Feed failure taxonomy. RateLimited should be retried with backoff by the
// caller. NoData (market closed, holiday) is not fatal; the cycle falls back
// to the last known sample.
var (
	ErrRateLimited = errors.New("feed: rate limited")
	ErrNoData      = errors.New("feed: no data")
	ErrNetwork     = errors.New("feed: network error")
)

// Fetcher defines the interface for fetching price data.
type Fetcher interface {
	// FetchHistory returns up to `days` of trailing daily samples, oldest first.
	FetchHistory(ctx context.Context, symbol string, days int) ([]model.PriceSample, error)
	// FetchLatest returns the most recent price sample for the symbol.
	FetchLatest(ctx context.Context, symbol string) (model.PriceSample, error)
	Name() string
}
