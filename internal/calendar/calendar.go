package calendar

import (
	"fmt"
	"time"
)

// Calendar decides when a new trading session begins for a symbol.
type Calendar interface {
	IsNewSession(symbol string, ts time.Time) bool
}

// DayCalendar treats each calendar day in the market timezone as a session.
// Not safe for concurrent use; the coordinator drives it from a single loop.
type DayCalendar struct {
	loc     *time.Location
	lastDay map[string]string
}

// NewDayCalendar creates a calendar for the given IANA timezone.
func NewDayCalendar(timezone string) (*DayCalendar, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return &DayCalendar{loc: loc, lastDay: make(map[string]string)}, nil
}

// IsNewSession reports whether ts falls on a day the symbol has not been seen
// on yet, and records the day. The first call for a symbol is a new session.
func (c *DayCalendar) IsNewSession(symbol string, ts time.Time) bool {
	day := ts.In(c.loc).Format("2006-01-02")
	if c.lastDay[symbol] == day {
		return false
	}
	c.lastDay[symbol] = day
	return true
}
