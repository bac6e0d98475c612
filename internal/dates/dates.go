package dates

import (
	"time"

	"go.uber.org/zap"
)

// DayFormat is the local calendar day form used for all due and streak
// comparisons. Comparing day strings instead of subtracting instants avoids
// off-by-one errors across DST and UTC-offset boundaries.
const DayFormat = "2006-01-02"

// intervalDays maps a box to the number of days until the next review.
var intervalDays = map[int]int{
	1: 1,
	2: 2,
	3: 3,
}

// Clock performs calendar-day arithmetic in a single fixed local timezone.
type Clock struct {
	loc    *time.Location
	logger *zap.Logger
}

// New creates a Clock bound to loc. A nil location falls back to time.Local.
func New(loc *time.Location, logger *zap.Logger) *Clock {
	if loc == nil {
		loc = time.Local
	}
	return &Clock{loc: loc, logger: logger}
}

// Location returns the clock's timezone.
func (c *Clock) Location() *time.Location {
	return c.loc
}

// LocalDay formats an instant as a YYYY-MM-DD local calendar day.
func (c *Clock) LocalDay(t time.Time) string {
	return t.In(c.loc).Format(DayFormat)
}

// Midnight returns the local midnight of the day containing t.
func (c *Clock) Midnight(t time.Time) time.Time {
	lt := t.In(c.loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, c.loc)
}

// NextReview computes the instant after which an item in the given box
// becomes due again: local midnight of from plus the box interval. An
// out-of-range box falls back to one day from now; the fallback is logged
// because it indicates a record that escaped validation.
func (c *Clock) NextReview(box int, from time.Time) time.Time {
	days, ok := intervalDays[box]
	if !ok {
		c.logger.Warn("no review interval for box, falling back to one day",
			zap.Int("box", box),
		)
		return from.Add(24 * time.Hour)
	}
	return c.Midnight(from).AddDate(0, 0, days)
}

// IsDue reports whether a stored next-review timestamp has arrived: its
// local day is today or earlier. A malformed timestamp fails closed (not
// due) with a warning rather than propagating a parse error.
func (c *Clock) IsDue(nextReview string, now time.Time) bool {
	t, err := time.Parse(time.RFC3339, nextReview)
	if err != nil {
		c.logger.Warn("malformed next review date, treating as not due",
			zap.String("value", nextReview),
			zap.Error(err),
		)
		return false
	}
	return c.LocalDay(t) <= c.LocalDay(now)
}

// SameLocalDay reports whether a stored RFC3339 timestamp falls on the same
// local calendar day as now. Malformed values report false.
func (c *Clock) SameLocalDay(stored string, now time.Time) bool {
	t, err := time.Parse(time.RFC3339, stored)
	if err != nil {
		return false
	}
	return c.LocalDay(t) == c.LocalDay(now)
}
