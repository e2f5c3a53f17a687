package model

import "time"

// Tier is the discrete signal strength emitted for a symbol in a cycle.
type Tier string

const (
	TierStrongBuy       Tier = "STRONG_BUY"
	TierBuy             Tier = "BUY"
	TierHold            Tier = "HOLD"
	TierConsiderSelling Tier = "CONSIDER_SELLING"
)

// BuySide reports whether the tier recommends adding to the position.
func (t Tier) BuySide() bool { return t == TierStrongBuy || t == TierBuy }

// SellSide reports whether the tier recommends trimming the position.
func (t Tier) SellSide() bool { return t == TierConsiderSelling }

// Zone is a coarse classification of current price vs its historical distribution.
type Zone string

const (
	ZoneCheap     Zone = "CHEAP"
	ZoneFair      Zone = "FAIR"
	ZoneExpensive Zone = "EXPENSIVE"
)

// ValueZoneResult is the historical-context output for one symbol.
// Derived each cycle, never persisted on its own.
type ValueZoneResult struct {
	Symbol         string
	PercentileRank float64 // 0-100
	MovingAverage  float64
	Zone           Zone
	LowConfidence  bool // fewer samples than the moving-average period
}

// DipMetrics are the per-cycle derived dip figures.
type DipMetrics struct {
	DipFromHighPct       float64
	DeltaFromPreviousPct float64
}

// SignalEvent is the final output for one symbol in one cycle. Immutable once emitted.
type SignalEvent struct {
	ID                string
	Symbol            string
	Tier              Tier
	Time              time.Time
	Price             float64
	Rationale         []string
	RecommendedAmount float64
	RecommendedUnits  int64
	PercentileRank    float64
	LowConfidence     bool
}
