package dip

import "github.com/sanketkarwalink/nifty-bees-sanket/internal/model"

// Update applies one price sample to the dip state and returns the derived
// metrics. On the first sample of a new session the extremes are reset to the
// incoming price and both streak counters start at zero. The previous price is
// updated unconditionally at the end of every call.
func Update(st *model.DipState, sample model.PriceSample, newSession bool) model.DipMetrics {
	price := sample.Price

	if newSession {
		st.SessionHigh = price
		st.SessionLow = price
		st.ConsecutiveDown = 0
		st.ConsecutiveUp = 0
	} else {
		if price > st.SessionHigh {
			st.SessionHigh = price
		}
		if price < st.SessionLow {
			st.SessionLow = price
		}
	}

	var m model.DipMetrics
	if st.SessionHigh > 0 {
		m.DipFromHighPct = (st.SessionHigh - price) / st.SessionHigh * 100
	}
	if st.PreviousPrice > 0 {
		m.DeltaFromPreviousPct = (price - st.PreviousPrice) / st.PreviousPrice * 100
	}

	if !newSession && st.PreviousPrice > 0 {
		switch {
		case price < st.PreviousPrice:
			st.ConsecutiveDown++
			st.ConsecutiveUp = 0
		case price > st.PreviousPrice:
			st.ConsecutiveUp++
			st.ConsecutiveDown = 0
		}
		// equal price leaves both counters unchanged
	}

	st.PreviousPrice = price
	return m
}
