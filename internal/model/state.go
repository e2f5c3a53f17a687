package model

import "time"

// DipState tracks intraday extremes and move streaks for one symbol.
// Reset at each new trading session boundary.
type DipState struct {
	SessionHigh     float64 `json:"session_high"`
	SessionLow      float64 `json:"session_low"`
	PreviousPrice   float64 `json:"previous_price"`
	ConsecutiveDown int     `json:"consecutive_down"`
	ConsecutiveUp   int     `json:"consecutive_up"`
}

// AlertState records the last alert fired for a symbol. Mutated only by the throttle.
type AlertState struct {
	LastTierSent Tier      `json:"last_tier_sent"`
	LastSentAt   time.Time `json:"last_sent_at"`
}
