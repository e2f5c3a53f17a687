package strategy

import (
	"strings"
	"testing"

	"github.com/sanketkarwalink/nifty-bees-sanket/internal/model"
)

func thresholds() Thresholds {
	return Thresholds{BuyOnDipPct: 2.0, SellOnSpikePct: 3.0, TrendLength: 3}
}

func fairZone(ma float64) model.ValueZoneResult {
	return model.ValueZoneResult{Symbol: "NIFTYBEES.NS", PercentileRank: 50, MovingAverage: ma, Zone: model.ZoneFair}
}

func TestEvaluate_MADipBoundary(t *testing.T) {
	// MA 300, price 291 is a 3% dip. With buy_on_dip 2.0 the strong-buy bar
	// is 4%, so this must be BUY, not STRONG_BUY.
	tier, rationale := Evaluate(fairZone(300), 291, model.DipState{}, thresholds())
	if tier != model.TierBuy {
		t.Fatalf("expected BUY at 3%% dip, got %s", tier)
	}
	if len(rationale) != 1 {
		t.Errorf("expected a single MA-dip reason, got %v", rationale)
	}
}

func TestEvaluate_MADipStrongBuy(t *testing.T) {
	// 4% dip meets the 2x threshold exactly.
	tier, _ := Evaluate(fairZone(300), 288, model.DipState{}, thresholds())
	if tier != model.TierStrongBuy {
		t.Fatalf("expected STRONG_BUY at 4%% dip, got %s", tier)
	}
}

func TestEvaluate_MADipSellOnSpike(t *testing.T) {
	// price 3% above MA triggers the sell side.
	tier, rationale := Evaluate(fairZone(300), 309, model.DipState{}, thresholds())
	if tier != model.TierConsiderSelling {
		t.Fatalf("expected CONSIDER_SELLING at 3%% spike, got %s", tier)
	}
	if len(rationale) == 0 {
		t.Error("expected a sell reason")
	}
}

func TestEvaluate_TrendOnlyBuy(t *testing.T) {
	// Value zone FAIR, MA-dip HOLD, three consecutive drops: BUY via the
	// trend strategy alone, rationale carries only the downtrend reason.
	st := model.DipState{ConsecutiveDown: 3}
	tier, rationale := Evaluate(fairZone(300), 299, st, thresholds())
	if tier != model.TierBuy {
		t.Fatalf("expected BUY from trend strategy, got %s", tier)
	}
	if len(rationale) != 1 {
		t.Fatalf("expected exactly one reason, got %v", rationale)
	}
	if !strings.Contains(rationale[0], "downtrend") {
		t.Errorf("expected downtrend reason, got %q", rationale[0])
	}
}

func TestEvaluate_TrendSell(t *testing.T) {
	st := model.DipState{ConsecutiveUp: 3}
	tier, _ := Evaluate(fairZone(300), 301, st, thresholds())
	if tier != model.TierConsiderSelling {
		t.Fatalf("expected CONSIDER_SELLING from rally, got %s", tier)
	}
}

func TestEvaluate_CheapZoneBuy(t *testing.T) {
	zone := model.ValueZoneResult{PercentileRank: 12, MovingAverage: 300, Zone: model.ZoneCheap}
	tier, rationale := Evaluate(zone, 300, model.DipState{}, thresholds())
	if tier != model.TierBuy {
		t.Fatalf("expected BUY in CHEAP zone, got %s", tier)
	}
	if len(rationale) != 1 || !strings.Contains(rationale[0], "value zone") {
		t.Errorf("expected value-zone reason, got %v", rationale)
	}
}

func TestEvaluate_BuySideOverridesSell(t *testing.T) {
	// MA-dip says sell (spike above MA), trend says buy (downtrend inside a
	// recovering session). Any buy evidence wins.
	st := model.DipState{ConsecutiveDown: 3}
	tier, rationale := Evaluate(fairZone(300), 310, st, thresholds())
	if tier != model.TierBuy {
		t.Fatalf("expected buy side to win over sell side, got %s", tier)
	}
	for _, r := range rationale {
		if strings.Contains(r, "take profits") {
			t.Errorf("sell reason leaked into buy rationale: %v", rationale)
		}
	}
}

func TestEvaluate_StrongestBuyWins(t *testing.T) {
	// MA-dip STRONG_BUY plus value-zone BUY: tier is STRONG_BUY with both
	// reasons, MA-dip first.
	zone := model.ValueZoneResult{PercentileRank: 5, MovingAverage: 300, Zone: model.ZoneCheap}
	tier, rationale := Evaluate(zone, 285, model.DipState{}, thresholds())
	if tier != model.TierStrongBuy {
		t.Fatalf("expected STRONG_BUY, got %s", tier)
	}
	if len(rationale) != 2 {
		t.Fatalf("expected two reasons, got %v", rationale)
	}
	if !strings.Contains(rationale[0], "MA") || !strings.Contains(rationale[1], "value zone") {
		t.Errorf("expected strategy evaluation order preserved, got %v", rationale)
	}
}

func TestEvaluate_SellReasonsCombine(t *testing.T) {
	zone := model.ValueZoneResult{PercentileRank: 95, MovingAverage: 300, Zone: model.ZoneExpensive}
	st := model.DipState{ConsecutiveUp: 4}
	tier, rationale := Evaluate(zone, 312, st, thresholds())
	if tier != model.TierConsiderSelling {
		t.Fatalf("expected CONSIDER_SELLING, got %s", tier)
	}
	if len(rationale) != 3 {
		t.Errorf("expected all three sell reasons, got %v", rationale)
	}
}

func TestEvaluate_DefaultHold(t *testing.T) {
	tier, rationale := Evaluate(fairZone(300), 300, model.DipState{}, thresholds())
	if tier != model.TierHold {
		t.Fatalf("expected HOLD, got %s", tier)
	}
	if len(rationale) != 0 {
		t.Errorf("HOLD should carry no rationale, got %v", rationale)
	}
}

func TestEvaluate_ZeroMAHoldsMADip(t *testing.T) {
	zone := model.ValueZoneResult{PercentileRank: 50, MovingAverage: 0, Zone: model.ZoneFair}
	tier, _ := Evaluate(zone, 250, model.DipState{}, thresholds())
	if tier != model.TierHold {
		t.Fatalf("expected HOLD with unusable MA, got %s", tier)
	}
}
