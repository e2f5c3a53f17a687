package strategy

import (
	"fmt"

	"github.com/sanketkarwalink/nifty-bees-sanket/internal/model"
)

// Thresholds are the per-symbol knobs the strategies evaluate against.
type Thresholds struct {
	BuyOnDipPct    float64 // buy when price is this % below the moving average
	SellOnSpikePct float64 // consider selling this % above the moving average
	TrendLength    int     // streak length that triggers the trend strategy
}

// Verdict is one strategy's opinion: a tier plus the reason behind it.
// HOLD verdicts carry no reason and never contribute to the rationale.
type Verdict struct {
	Tier   model.Tier
	Reason string
}

// evalMADip scores the gap between price and its moving average.
// d = (MA - price) / MA * 100; a positive d is a dip below the average.
func evalMADip(zone model.ValueZoneResult, price float64, th Thresholds) Verdict {
	if zone.MovingAverage <= 0 {
		return Verdict{Tier: model.TierHold}
	}
	d := (zone.MovingAverage - price) / zone.MovingAverage * 100

	switch {
	case d >= 2*th.BuyOnDipPct:
		return Verdict{
			Tier:   model.TierStrongBuy,
			Reason: fmt.Sprintf("price %.2f%% below %.2f MA - strong dip", d, zone.MovingAverage),
		}
	case d >= th.BuyOnDipPct:
		return Verdict{
			Tier:   model.TierBuy,
			Reason: fmt.Sprintf("price %.2f%% below %.2f MA - good entry", d, zone.MovingAverage),
		}
	case d <= -th.SellOnSpikePct:
		return Verdict{
			Tier:   model.TierConsiderSelling,
			Reason: fmt.Sprintf("price %.2f%% above %.2f MA - take profits", -d, zone.MovingAverage),
		}
	default:
		return Verdict{Tier: model.TierHold}
	}
}

// evalValueZone maps the historical value zone straight to a tier.
func evalValueZone(zone model.ValueZoneResult) Verdict {
	switch zone.Zone {
	case model.ZoneCheap:
		return Verdict{
			Tier:   model.TierBuy,
			Reason: fmt.Sprintf("in value zone (%.0fth percentile)", zone.PercentileRank),
		}
	case model.ZoneExpensive:
		return Verdict{
			Tier:   model.TierConsiderSelling,
			Reason: fmt.Sprintf("historically expensive (%.0fth percentile)", zone.PercentileRank),
		}
	default:
		return Verdict{Tier: model.TierHold}
	}
}

// evalTrend reacts to sustained one-directional moves.
func evalTrend(st model.DipState, th Thresholds) Verdict {
	if st.ConsecutiveDown >= th.TrendLength {
		return Verdict{
			Tier:   model.TierBuy,
			Reason: fmt.Sprintf("sustained downtrend: %d consecutive drops", st.ConsecutiveDown),
		}
	}
	if st.ConsecutiveUp >= th.TrendLength {
		return Verdict{
			Tier:   model.TierConsiderSelling,
			Reason: fmt.Sprintf("sustained rally: %d consecutive rises", st.ConsecutiveUp),
		}
	}
	return Verdict{Tier: model.TierHold}
}
