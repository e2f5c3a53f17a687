package throttle

import (
	"time"

	"github.com/sanketkarwalink/nifty-bees-sanket/internal/model"
)

// Throttle decides whether a signal may fire a notification, based on the
// symbol's alert state. The state itself is owned by the coordinator and
// passed in; the throttle only reads and (on MarkSent) mutates it.
type Throttle struct {
	Cooldown time.Duration
	Now      func() time.Time // defaults to time.Now
}

// New creates a throttle with the given cooldown window.
func New(cooldown time.Duration) *Throttle {
	return &Throttle{Cooldown: cooldown, Now: time.Now}
}

func (t *Throttle) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

// ShouldFire reports whether an alert for the tier may be sent. HOLD is
// suppressed unconditionally. Otherwise an alert passes when no prior alert
// exists, the tier changed in either direction, or the cooldown has elapsed.
func (t *Throttle) ShouldFire(st *model.AlertState, tier model.Tier) bool {
	if tier == model.TierHold {
		return false
	}
	if st.LastSentAt.IsZero() {
		return true
	}
	if tier != st.LastTierSent {
		return true
	}
	return t.now().Sub(st.LastSentAt) >= t.Cooldown
}

// MarkSent records a successfully delivered alert. Callers must not invoke it
// when delivery failed, so the next qualifying cycle retries.
func (t *Throttle) MarkSent(st *model.AlertState, tier model.Tier) {
	st.LastTierSent = tier
	st.LastSentAt = t.now()
}

// ResetSession clears the alert state at a session boundary. Only called when
// the session-reset policy is enabled in config.
func (t *Throttle) ResetSession(st *model.AlertState) {
	*st = model.AlertState{}
}
