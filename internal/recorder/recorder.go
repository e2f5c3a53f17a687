package recorder

import "github.com/sanketkarwalink/nifty-bees-sanket/internal/model"

// SignalRecord holds all data for one emitted signal event.
type SignalRecord struct {
	Event          *model.SignalEvent
	Zone           model.Zone
	MovingAverage  float64
	DipFromHighPct float64
	DeltaPct       float64
}

// AlertRecord records a notification that was actually delivered.
type AlertRecord struct {
	EventID string
	Symbol  string
	Tier    model.Tier
	Message string
}

// CycleRecord summarises one coordinator pass.
type CycleRecord struct {
	SymbolsProcessed int
	SymbolsDegraded  int
	BestSymbol       string
	BestTier         model.Tier
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordSignal(rec *SignalRecord) error
	RecordAlert(rec *AlertRecord) error
	RecordCycle(rec *CycleRecord) error
	Close() error
}
