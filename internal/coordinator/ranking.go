package coordinator

import (
	"math"
	"sort"

	"github.com/sanketkarwalink/nifty-bees-sanket/internal/model"
)

// tierOrder is the ranking precedence: strongest buy evidence first, HOLD
// ahead of sell-side.
var tierOrder = map[model.Tier]int{
	model.TierStrongBuy:       0,
	model.TierBuy:             1,
	model.TierHold:            2,
	model.TierConsiderSelling: 3,
}

// Rank orders events by tier precedence, then percentile distance from 50
// (more extreme first), then symbol name ascending. The input is not mutated.
func Rank(events []*model.SignalEvent) []*model.SignalEvent {
	ranked := make([]*model.SignalEvent, len(events))
	copy(ranked, events)
	sort.SliceStable(ranked, func(i, j int) bool {
		oi, oj := tierOrder[ranked[i].Tier], tierOrder[ranked[j].Tier]
		if oi != oj {
			return oi < oj
		}
		di := math.Abs(ranked[i].PercentileRank - 50)
		dj := math.Abs(ranked[j].PercentileRank - 50)
		if di != dj {
			return di > dj
		}
		return ranked[i].Symbol < ranked[j].Symbol
	})
	return ranked
}

// Best returns the top-ranked non-HOLD event, or nil.
func Best(ranked []*model.SignalEvent) *model.SignalEvent {
	for _, evt := range ranked {
		if evt.Tier != model.TierHold {
			return evt
		}
	}
	return nil
}
