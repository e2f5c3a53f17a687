package feed

import (
	"context"
	"time"

	"github.com/sanketkarwalink/nifty-bees-sanket/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price   float64
	History []model.PriceSample
	Err     error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchHistory(_ context.Context, symbol string, days int) ([]model.PriceSample, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.History != nil {
		return m.History, nil
	}
	return GenerateSamples(symbol, m.Price, days), nil
}

func (m *MockFetcher) FetchLatest(_ context.Context, symbol string) (model.PriceSample, error) {
	if m.Err != nil {
		return model.PriceSample{}, m.Err
	}
	return model.PriceSample{Symbol: symbol, Time: time.Now(), Price: m.Price, Volume: 1000000}, nil
}

// GenerateSamples builds a deterministic daily series drifting around basePrice.
func GenerateSamples(symbol string, basePrice float64, count int) []model.PriceSample {
	samples := make([]model.PriceSample, count)
	for i := 0; i < count; i++ {
		samples[i] = model.PriceSample{
			Symbol: symbol,
			Time:   time.Now().AddDate(0, 0, -(count - i)),
			Price:  basePrice * (1 + float64(i-count/2)*0.001),
			Volume: 1000000,
		}
	}
	return samples
}
