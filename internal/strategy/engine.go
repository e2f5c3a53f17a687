package strategy

import "github.com/sanketkarwalink/nifty-bees-sanket/internal/model"

// buyStrength orders buy-side tiers for the reducer.
var buyStrength = map[model.Tier]int{
	model.TierBuy:       1,
	model.TierStrongBuy: 2,
}

// Evaluate runs the three strategies in fixed order (MA-dip, value-zone,
// trend) and reduces their verdicts to a single tier with rationale.
//
// Buy-side and sell-side are separate axes: any buy-side verdict wins over
// sell-side verdicts from other strategies, the strongest buy tier is taken,
// and the rationale collects every verdict on the winning side in evaluation
// order. With no buy-side and no sell-side verdicts the result is HOLD.
func Evaluate(zone model.ValueZoneResult, price float64, st model.DipState, th Thresholds) (model.Tier, []string) {
	verdicts := []Verdict{
		evalMADip(zone, price, th),
		evalValueZone(zone),
		evalTrend(st, th),
	}

	best := model.TierHold
	var buyReasons, sellReasons []string
	for _, v := range verdicts {
		switch {
		case v.Tier.BuySide():
			buyReasons = append(buyReasons, v.Reason)
			if buyStrength[v.Tier] > buyStrength[best] {
				best = v.Tier
			}
		case v.Tier.SellSide():
			sellReasons = append(sellReasons, v.Reason)
		}
	}

	if len(buyReasons) > 0 {
		return best, buyReasons
	}
	if len(sellReasons) > 0 {
		return model.TierConsiderSelling, sellReasons
	}
	return model.TierHold, nil
}
