package model

import "time"

// PriceSample is a single observed price for a symbol. Immutable once recorded.
type PriceSample struct {
	Symbol string
	Time   time.Time
	Price  float64
	Volume float64
}
