package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/sanketkarwalink/nifty-bees-sanket/internal/model"
)

func tierBadge(tier model.Tier) string {
	switch tier {
	case model.TierStrongBuy:
		return "🟢🟢🟢 STRONG BUY"
	case model.TierBuy:
		return "🟢🟢 BUY"
	case model.TierConsiderSelling:
		return "🔴🔴 CONSIDER SELLING"
	default:
		return "🟡 HOLD"
	}
}

func zoneBadge(zone model.Zone) string {
	switch zone {
	case model.ZoneCheap:
		return "🟢 BUY ZONE"
	case model.ZoneExpensive:
		return "🔴 HIGH"
	default:
		return "🟡 FAIR"
	}
}

func rupees(amount float64) string {
	return "₹" + humanize.CommafWithDigits(amount, 0)
}

// FormatSignalAlert formats one signal event into a Telegram message.
func FormatSignalAlert(name string, evt *model.SignalEvent, zone model.ValueZoneResult, metrics model.DipMetrics) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("💡 <b>%s</b> (%s)\n", name, evt.Symbol))
	b.WriteString(fmt.Sprintf("%s\n\n", tierBadge(evt.Tier)))

	b.WriteString(fmt.Sprintf("Price: ₹%.2f | Percentile: %.0f%% %s\n", evt.Price, evt.PercentileRank, zoneBadge(zone.Zone)))
	b.WriteString(fmt.Sprintf("MA: ₹%.2f | Dip from high: %.2f%%\n", zone.MovingAverage, metrics.DipFromHighPct))
	if metrics.DeltaFromPreviousPct != 0 {
		b.WriteString(fmt.Sprintf("Change: %+.2f%%\n", metrics.DeltaFromPreviousPct))
	}

	if evt.RecommendedAmount > 0 {
		verb := "Consider"
		if evt.Tier == model.TierConsiderSelling {
			verb = "Book profits"
		}
		b.WriteString(fmt.Sprintf("\n💰 %s: %s (~%d units)\n", verb, rupees(evt.RecommendedAmount), evt.RecommendedUnits))
	}

	if len(evt.Rationale) > 0 {
		b.WriteString("\n📋 Analysis:\n")
		for _, r := range evt.Rationale {
			b.WriteString(fmt.Sprintf("  • %s\n", r))
		}
	}
	if evt.LowConfidence {
		b.WriteString("\n⚠️ Low confidence: limited history\n")
	}

	b.WriteString(fmt.Sprintf("<i>%s</i>", evt.Time.Format("2006-01-02 15:04:05")))
	return b.String()
}

// FormatComparison formats the ranked best opportunities across symbols,
// top three at most.
func FormatComparison(events []*model.SignalEvent, names map[string]string) string {
	var b strings.Builder
	b.WriteString("🎯 <b>BEST ETF OPPORTUNITIES</b>\n\n")

	shown := 0
	for _, evt := range events {
		if evt.Tier == model.TierHold {
			continue
		}
		shown++
		if shown > 3 {
			break
		}
		name := names[evt.Symbol]
		if name == "" {
			name = evt.Symbol
		}
		b.WriteString(fmt.Sprintf("%d. <b>%s</b> — %s\n", shown, name, tierBadge(evt.Tier)))
		b.WriteString(fmt.Sprintf("   Price: ₹%.2f | Percentile: %.0f%%\n", evt.Price, evt.PercentileRank))
		if evt.RecommendedAmount > 0 {
			b.WriteString(fmt.Sprintf("   💰 Consider: %s (~%d units)\n", rupees(evt.RecommendedAmount), evt.RecommendedUnits))
		}
		if len(evt.Rationale) > 0 {
			b.WriteString(fmt.Sprintf("   ✓ %s\n", strings.Join(evt.Rationale, ", ")))
		}
		b.WriteString("\n")
	}

	b.WriteString("⏰ Act fast on the best opportunities!")
	return b.String()
}

// FormatDailySummary formats the end-of-day status report.
func FormatDailySummary(events []*model.SignalEvent, names map[string]string, degraded int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📅 <b>Daily Summary</b> | %s\n\n", time.Now().Format("2006-01-02")))

	for _, evt := range events {
		name := names[evt.Symbol]
		if name == "" {
			name = evt.Symbol
		}
		b.WriteString(fmt.Sprintf("%s: ₹%.2f | %.0f%% | %s\n", name, evt.Price, evt.PercentileRank, tierBadge(evt.Tier)))
	}
	if degraded > 0 {
		b.WriteString(fmt.Sprintf("\n⚠️ %d symbol(s) degraded this cycle\n", degraded))
	}
	if len(events) == 0 {
		b.WriteString("No signals computed yet.\n")
	}
	return b.String()
}
