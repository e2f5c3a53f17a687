package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sanketkarwalink/nifty-bees-sanket/internal/allocator"
	"github.com/sanketkarwalink/nifty-bees-sanket/internal/calendar"
	"github.com/sanketkarwalink/nifty-bees-sanket/internal/config"
	"github.com/sanketkarwalink/nifty-bees-sanket/internal/dip"
	"github.com/sanketkarwalink/nifty-bees-sanket/internal/feed"
	"github.com/sanketkarwalink/nifty-bees-sanket/internal/history"
	"github.com/sanketkarwalink/nifty-bees-sanket/internal/model"
	"github.com/sanketkarwalink/nifty-bees-sanket/internal/notifier"
	"github.com/sanketkarwalink/nifty-bees-sanket/internal/recorder"
	"github.com/sanketkarwalink/nifty-bees-sanket/internal/strategy"
	"github.com/sanketkarwalink/nifty-bees-sanket/internal/throttle"
)

// Notifier is the delivery capability the coordinator alerts through.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Holdings supplies the value already invested in a symbol; zero if untracked.
type Holdings interface {
	InvestedValue(symbol string) float64
}

// StaticHoldings is a config-backed Holdings implementation.
type StaticHoldings map[string]float64

func (h StaticHoldings) InvestedValue(symbol string) float64 { return h[symbol] }

// SymbolStatus records a per-symbol failure within a cycle.
type SymbolStatus struct {
	Symbol string
	Err    error
}

// CycleResult aggregates one coordinator pass across all symbols.
type CycleResult struct {
	StartedAt time.Time
	Events    []*model.SignalEvent // config order
	Ranked    []*model.SignalEvent // ranking order, see Rank
	Best      *model.SignalEvent   // top-ranked non-HOLD event, nil if none
	Degraded  []SymbolStatus
}

// Options bundles the collaborators and tunables for a Coordinator.
type Options struct {
	Symbols                 []config.SymbolConfig
	Feed                    feed.Fetcher
	Calendar                calendar.Calendar
	Notifier                Notifier
	Recorder                recorder.Recorder
	Throttle                *throttle.Throttle
	Allocator               *allocator.Allocator
	Holdings                Holdings
	HistoryParams           history.Params
	TrendLength             int
	WindowDays              int
	FeedTimeout             time.Duration
	RateLimitBackoff        time.Duration
	ResetAlertsOnNewSession bool
	Log                     zerolog.Logger
}

// Coordinator drives the per-symbol pipeline each cycle. It owns the
// per-symbol window, dip, and alert state maps for the process lifetime.
// Per-symbol state has exactly one writer at a time: cycleMu serializes
// RunCycle, Bootstrap, and snapshot export/restore, so overlapping cron
// ticks or a manual trigger queue up instead of racing.
type Coordinator struct {
	opts  Options
	names map[string]string

	cycleMu      sync.Mutex
	windows      map[string]*history.Window
	dips         map[string]*model.DipState
	alerts       map[string]*model.AlertState
	backoffUntil map[string]time.Time

	// comparison alerts share one reserved throttle slot, like any symbol
	comparisonAlert model.AlertState

	mu   sync.Mutex
	last *CycleResult

	now func() time.Time
}

// New creates a Coordinator with empty per-symbol state.
func New(opts Options) *Coordinator {
	c := &Coordinator{
		opts:         opts,
		names:        make(map[string]string, len(opts.Symbols)),
		windows:      make(map[string]*history.Window, len(opts.Symbols)),
		dips:         make(map[string]*model.DipState, len(opts.Symbols)),
		alerts:       make(map[string]*model.AlertState, len(opts.Symbols)),
		backoffUntil: make(map[string]time.Time),
		now:          time.Now,
	}
	maxAge := time.Duration(opts.WindowDays) * 24 * time.Hour
	for _, sc := range opts.Symbols {
		c.names[sc.Symbol] = sc.Name
		c.windows[sc.Symbol] = history.NewWindow(sc.Symbol, maxAge)
		c.dips[sc.Symbol] = &model.DipState{}
		c.alerts[sc.Symbol] = &model.AlertState{}
	}
	return c
}

// Bootstrap seeds each symbol's window from a feed history fetch. Failures are
// logged and tolerated: cold-started symbols run with low-confidence zones
// until samples accumulate.
func (c *Coordinator) Bootstrap(ctx context.Context) {
	c.cycleMu.Lock()
	defer c.cycleMu.Unlock()

	for _, sc := range c.opts.Symbols {
		fctx, cancel := context.WithTimeout(ctx, c.opts.FeedTimeout)
		samples, err := c.opts.Feed.FetchHistory(fctx, sc.Symbol, c.opts.WindowDays)
		cancel()
		if err != nil {
			c.opts.Log.Warn().Err(err).Str("symbol", sc.Symbol).Msg("history bootstrap failed, cold start")
			continue
		}
		if err := c.windows[sc.Symbol].Seed(samples); err != nil {
			c.opts.Log.Warn().Err(err).Str("symbol", sc.Symbol).Msg("seed window")
			continue
		}
		c.opts.Log.Info().Str("symbol", sc.Symbol).Int("samples", len(samples)).Msg("window seeded")
	}
}

// LastResult returns the most recent completed cycle, nil before the first.
func (c *Coordinator) LastResult() *CycleResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Names maps symbols to their display names.
func (c *Coordinator) Names() map[string]string { return c.names }

// RunCycle processes every configured symbol once. A failing symbol is
// skipped with a degraded status; it never aborts the other symbols.
// Concurrent callers are serialized; the second cycle starts after the
// first finishes.
func (c *Coordinator) RunCycle(ctx context.Context) *CycleResult {
	c.cycleMu.Lock()
	defer c.cycleMu.Unlock()

	result := &CycleResult{StartedAt: c.now()}

	for _, sc := range c.opts.Symbols {
		evt, err := c.processSymbol(ctx, sc)
		if err != nil {
			c.opts.Log.Warn().Err(err).Str("symbol", sc.Symbol).Msg("symbol cycle degraded")
			result.Degraded = append(result.Degraded, SymbolStatus{Symbol: sc.Symbol, Err: err})
			continue
		}
		result.Events = append(result.Events, evt)
	}

	result.Ranked = Rank(result.Events)
	result.Best = Best(result.Ranked)

	if result.Best != nil {
		c.opts.Log.Info().
			Str("symbol", result.Best.Symbol).
			Str("tier", string(result.Best.Tier)).
			Float64("price", result.Best.Price).
			Msg("best opportunity")
	}
	c.maybeSendComparison(ctx, result)

	if err := c.opts.Recorder.RecordCycle(&recorder.CycleRecord{
		SymbolsProcessed: len(result.Events),
		SymbolsDegraded:  len(result.Degraded),
		BestSymbol:       bestSymbol(result.Best),
		BestTier:         bestTier(result.Best),
	}); err != nil {
		c.opts.Log.Error().Err(err).Msg("record cycle")
	}

	c.mu.Lock()
	c.last = result
	c.mu.Unlock()
	return result
}

func bestSymbol(evt *model.SignalEvent) string {
	if evt == nil {
		return ""
	}
	return evt.Symbol
}

func bestTier(evt *model.SignalEvent) model.Tier {
	if evt == nil {
		return ""
	}
	return evt.Tier
}

func (c *Coordinator) processSymbol(ctx context.Context, sc config.SymbolConfig) (*model.SignalEvent, error) {
	now := c.now()
	if until, ok := c.backoffUntil[sc.Symbol]; ok && now.Before(until) {
		return nil, fmt.Errorf("rate-limit backoff until %s", until.Format(time.RFC3339))
	}

	sample, reused, err := c.fetchSample(ctx, sc.Symbol, now)
	if err != nil {
		return nil, err
	}
	if sample.Price <= 0 {
		return nil, fmt.Errorf("%w: %s at %v", allocator.ErrInvalidPrice, sc.Symbol, sample.Price)
	}

	newSession := c.opts.Calendar.IsNewSession(sc.Symbol, sample.Time)
	if newSession && c.opts.ResetAlertsOnNewSession {
		c.opts.Throttle.ResetSession(c.alerts[sc.Symbol])
	}

	window := c.windows[sc.Symbol]
	if !reused {
		if last, ok := window.Last(); !ok || !last.Time.Equal(sample.Time) {
			if err := window.Append(sample); err != nil {
				c.opts.Log.Warn().Err(err).Str("symbol", sc.Symbol).Msg("window append")
			}
		}
	}

	st := c.dips[sc.Symbol]
	metrics := dip.Update(st, sample, newSession)

	zone, err := history.Evaluate(window, sample.Price, c.opts.HistoryParams)
	if err != nil {
		if !errors.Is(err, history.ErrInsufficientHistory) {
			return nil, err
		}
		zone = history.FallbackFair(sc.Symbol, sample.Price)
	}

	tier, rationale := strategy.Evaluate(zone, sample.Price, *st, strategy.Thresholds{
		BuyOnDipPct:    sc.BuyOnDipPct,
		SellOnSpikePct: sc.SellOnSpikePct,
		TrendLength:    c.opts.TrendLength,
	})

	rec, err := c.opts.Allocator.Recommend(tier, sample.Price, sc.TargetAllocation, c.opts.Holdings.InvestedValue(sc.Symbol))
	if err != nil {
		return nil, err
	}

	evt := &model.SignalEvent{
		ID:                uuid.NewString(),
		Symbol:            sc.Symbol,
		Tier:              tier,
		Time:              sample.Time,
		Price:             sample.Price,
		Rationale:         rationale,
		RecommendedAmount: rec.Amount,
		RecommendedUnits:  rec.Units,
		PercentileRank:    zone.PercentileRank,
		LowConfidence:     zone.LowConfidence,
	}

	if err := c.opts.Recorder.RecordSignal(&recorder.SignalRecord{
		Event:          evt,
		Zone:           zone.Zone,
		MovingAverage:  zone.MovingAverage,
		DipFromHighPct: metrics.DipFromHighPct,
		DeltaPct:       metrics.DeltaFromPreviousPct,
	}); err != nil {
		c.opts.Log.Error().Err(err).Str("symbol", sc.Symbol).Msg("record signal")
	}

	c.maybeSendAlert(ctx, sc, evt, zone, metrics)
	return evt, nil
}

// fetchSample gets the latest sample; on NoData it falls back to the last
// known sample (reused=true) so the cycle can still evaluate.
func (c *Coordinator) fetchSample(ctx context.Context, symbol string, now time.Time) (model.PriceSample, bool, error) {
	fctx, cancel := context.WithTimeout(ctx, c.opts.FeedTimeout)
	defer cancel()

	sample, err := c.opts.Feed.FetchLatest(fctx, symbol)
	switch {
	case err == nil:
		return sample, false, nil
	case errors.Is(err, feed.ErrRateLimited):
		c.backoffUntil[symbol] = now.Add(c.opts.RateLimitBackoff)
		return model.PriceSample{}, false, err
	case errors.Is(err, feed.ErrNoData):
		if last, ok := c.windows[symbol].Last(); ok {
			c.opts.Log.Debug().Str("symbol", symbol).Msg("no fresh data, reusing last known sample")
			return last, true, nil
		}
		return model.PriceSample{}, false, err
	default:
		return model.PriceSample{}, false, err
	}
}

func (c *Coordinator) maybeSendAlert(ctx context.Context, sc config.SymbolConfig, evt *model.SignalEvent, zone model.ValueZoneResult, metrics model.DipMetrics) {
	if c.opts.Notifier == nil {
		return
	}
	state := c.alerts[sc.Symbol]
	if !c.opts.Throttle.ShouldFire(state, evt.Tier) {
		return
	}

	msg := notifier.FormatSignalAlert(sc.Name, evt, zone, metrics)
	if err := c.opts.Notifier.Send(ctx, msg); err != nil {
		// Throttle state stays untouched; the next qualifying cycle retries.
		c.opts.Log.Error().Err(err).Str("symbol", sc.Symbol).Msg("alert delivery failed")
		return
	}
	c.opts.Throttle.MarkSent(state, evt.Tier)
	if err := c.opts.Recorder.RecordAlert(&recorder.AlertRecord{
		EventID: evt.ID,
		Symbol:  evt.Symbol,
		Tier:    evt.Tier,
		Message: msg,
	}); err != nil {
		c.opts.Log.Error().Err(err).Str("symbol", sc.Symbol).Msg("record alert")
	}
}

// maybeSendComparison pushes a cross-symbol opportunity ranking when more
// than one symbol is tracked and the cycle's best event is buy-side.
func (c *Coordinator) maybeSendComparison(ctx context.Context, result *CycleResult) {
	if c.opts.Notifier == nil || len(c.opts.Symbols) < 2 || result.Best == nil || !result.Best.Tier.BuySide() {
		return
	}
	if !c.opts.Throttle.ShouldFire(&c.comparisonAlert, result.Best.Tier) {
		return
	}
	msg := notifier.FormatComparison(result.Ranked, c.names)
	if err := c.opts.Notifier.Send(ctx, msg); err != nil {
		c.opts.Log.Error().Err(err).Msg("comparison alert delivery failed")
		return
	}
	c.opts.Throttle.MarkSent(&c.comparisonAlert, result.Best.Tier)
}
