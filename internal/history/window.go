package history

import (
	"fmt"
	"time"

	"github.com/sanketkarwalink/nifty-bees-sanket/internal/model"
)

// Window holds the trailing price samples for one symbol. Append-only; samples
// older than the window length are evicted as newer ones arrive. Samples are
// kept timestamp-ordered.
type Window struct {
	symbol  string
	maxAge  time.Duration
	samples []model.PriceSample
}

// NewWindow creates an empty window for the symbol.
func NewWindow(symbol string, maxAge time.Duration) *Window {
	return &Window{symbol: symbol, maxAge: maxAge}
}

// Symbol returns the symbol this window belongs to.
func (w *Window) Symbol() string { return w.symbol }

// Len returns the number of retained samples.
func (w *Window) Len() int { return len(w.samples) }

// Samples returns the retained samples, oldest first. The returned slice must
// not be mutated by the caller.
func (w *Window) Samples() []model.PriceSample { return w.samples }

// Last returns the most recent sample, if any.
func (w *Window) Last() (model.PriceSample, bool) {
	if len(w.samples) == 0 {
		return model.PriceSample{}, false
	}
	return w.samples[len(w.samples)-1], true
}

// Append records a new sample and evicts expired ones. Samples for a different
// symbol or older than the newest retained sample are rejected.
func (w *Window) Append(s model.PriceSample) error {
	if s.Symbol != w.symbol {
		return fmt.Errorf("window %s: sample for %s rejected", w.symbol, s.Symbol)
	}
	if last, ok := w.Last(); ok && s.Time.Before(last.Time) {
		return fmt.Errorf("window %s: out-of-order sample at %s (last %s)", w.symbol, s.Time, last.Time)
	}
	w.samples = append(w.samples, s)
	w.evict(s.Time)
	return nil
}

// Seed bulk-loads historical samples, replacing current contents. Used when
// bootstrapping from a feed history fetch or a snapshot.
func (w *Window) Seed(samples []model.PriceSample) error {
	w.samples = w.samples[:0]
	for _, s := range samples {
		if err := w.Append(s); err != nil {
			return err
		}
	}
	return nil
}

func (w *Window) evict(newest time.Time) {
	cutoff := newest.Add(-w.maxAge)
	i := 0
	for i < len(w.samples) && w.samples[i].Time.Before(cutoff) {
		i++
	}
	if i > 0 {
		w.samples = w.samples[i:]
	}
}
