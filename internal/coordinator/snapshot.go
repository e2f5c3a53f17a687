package coordinator

import (
	"github.com/sanketkarwalink/nifty-bees-sanket/internal/model"
	"github.com/sanketkarwalink/nifty-bees-sanket/internal/store"
)

// ExportState copies the per-symbol state into a snapshot.
func (c *Coordinator) ExportState() *store.State {
	c.cycleMu.Lock()
	defer c.cycleMu.Unlock()

	st := &store.State{
		Windows: make(map[string][]model.PriceSample, len(c.windows)),
		Dips:    make(map[string]model.DipState, len(c.dips)),
		Alerts:  make(map[string]model.AlertState, len(c.alerts)),
	}
	for symbol, w := range c.windows {
		samples := w.Samples()
		st.Windows[symbol] = append([]model.PriceSample(nil), samples...)
	}
	for symbol, d := range c.dips {
		st.Dips[symbol] = *d
	}
	for symbol, a := range c.alerts {
		st.Alerts[symbol] = *a
	}
	return st
}

// RestoreState loads a snapshot into the per-symbol maps. Unknown symbols in
// the snapshot are ignored; a later Bootstrap may overwrite restored windows
// with fresher feed history.
func (c *Coordinator) RestoreState(st *store.State) {
	c.cycleMu.Lock()
	defer c.cycleMu.Unlock()

	for symbol, samples := range st.Windows {
		if w, ok := c.windows[symbol]; ok {
			if err := w.Seed(samples); err != nil {
				c.opts.Log.Warn().Err(err).Str("symbol", symbol).Msg("restore window")
			}
		}
	}
	for symbol, d := range st.Dips {
		if cur, ok := c.dips[symbol]; ok {
			*cur = d
		}
	}
	for symbol, a := range st.Alerts {
		if cur, ok := c.alerts[symbol]; ok {
			*cur = a
		}
	}
}
