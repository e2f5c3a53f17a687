package history

import (
	"errors"

	"github.com/sanketkarwalink/nifty-bees-sanket/internal/model"
)

// ErrInsufficientHistory is returned when a window holds no samples at all.
// Callers degrade to a low-confidence FAIR classification.
var ErrInsufficientHistory = errors.New("insufficient history")

// Params controls historical-context evaluation.
type Params struct {
	MovingAvgPeriod     int
	CheapPercentile     float64
	ExpensivePercentile float64
}

// Evaluate computes percentile rank, moving average, and value zone for the
// current price against the window. A window shorter than the moving-average
// period is not an error; the result carries a low-confidence flag instead.
func Evaluate(w *Window, price float64, p Params) (model.ValueZoneResult, error) {
	samples := w.Samples()
	if len(samples) == 0 {
		return model.ValueZoneResult{}, ErrInsufficientHistory
	}

	atOrBelow := 0
	for _, s := range samples {
		if s.Price <= price {
			atOrBelow++
		}
	}
	percentile := float64(atOrBelow) / float64(len(samples)) * 100

	period := p.MovingAvgPeriod
	lowConfidence := false
	if len(samples) < period {
		period = len(samples)
		lowConfidence = true
	}
	sum := 0.0
	for _, s := range samples[len(samples)-period:] {
		sum += s.Price
	}
	ma := sum / float64(period)

	zone := model.ZoneFair
	switch {
	case percentile < p.CheapPercentile:
		zone = model.ZoneCheap
	case percentile > p.ExpensivePercentile:
		zone = model.ZoneExpensive
	}

	return model.ValueZoneResult{
		Symbol:         w.Symbol(),
		PercentileRank: percentile,
		MovingAverage:  ma,
		Zone:           zone,
		LowConfidence:  lowConfidence,
	}, nil
}

// FallbackFair is the degraded result used when a window is empty: FAIR zone,
// moving average pinned to the current price, low confidence.
func FallbackFair(symbol string, price float64) model.ValueZoneResult {
	return model.ValueZoneResult{
		Symbol:         symbol,
		PercentileRank: 50,
		MovingAverage:  price,
		Zone:           model.ZoneFair,
		LowConfidence:  true,
	}
}
