package allocator

import (
	"errors"
	"math"

	"github.com/sanketkarwalink/nifty-bees-sanket/internal/model"
)

// ErrInvalidPrice indicates bad feed data (price <= 0). Fatal to that
// symbol's cycle only.
var ErrInvalidPrice = errors.New("invalid price")

// Fraction of the remaining allocation gap committed per buy tier.
const (
	strongBuyFraction = 1.0
	buyFraction       = 0.5
)

// Allocator converts signal tiers into concrete amounts and unit counts.
type Allocator struct {
	PortfolioAmount float64
	MaxSingleTrade  float64
	SellFraction    float64 // fraction of current holdings to trim on a sell signal
}

// Recommendation is the sized outcome for one signal.
type Recommendation struct {
	Amount float64
	Units  int64
}

// Recommend sizes a trade for the tier. targetAllocation is the symbol's
// configured fraction of the portfolio; currentInvested is the value already
// held (zero if untracked).
func (a *Allocator) Recommend(tier model.Tier, price, targetAllocation, currentInvested float64) (Recommendation, error) {
	if price <= 0 {
		return Recommendation{}, ErrInvalidPrice
	}

	targetValue := a.PortfolioAmount * targetAllocation
	gap := targetValue - currentInvested

	var amount float64
	switch tier {
	case model.TierStrongBuy:
		amount = math.Max(0, gap) * strongBuyFraction
	case model.TierBuy:
		amount = math.Max(0, gap) * buyFraction
	case model.TierConsiderSelling:
		amount = currentInvested * a.SellFraction
		if amount > currentInvested {
			amount = currentInvested
		}
	default:
		return Recommendation{}, nil
	}

	if tier.BuySide() && a.MaxSingleTrade > 0 && amount > a.MaxSingleTrade {
		amount = a.MaxSingleTrade
	}

	return Recommendation{
		Amount: amount,
		Units:  int64(math.Floor(amount / price)),
	}, nil
}
