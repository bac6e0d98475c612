package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var t0 = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func newClock(loc *time.Location) *Clock {
	return New(loc, zap.NewNop())
}

func TestLocalDay(t *testing.T) {
	c := newClock(time.UTC)
	assert.Equal(t, "2025-06-15", c.LocalDay(t0))
}

func TestLocalDayCrossesMidnightInOffsetZone(t *testing.T) {
	// 23:30 UTC is already the next calendar day at UTC+2.
	east := time.FixedZone("UTC+2", 2*60*60)
	c := newClock(east)

	lateEvening := time.Date(2025, 6, 15, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-06-16", c.LocalDay(lateEvening))
	assert.Equal(t, "2025-06-15", newClock(time.UTC).LocalDay(lateEvening))
}

func TestMidnight(t *testing.T) {
	c := newClock(time.UTC)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), c.Midnight(t0))
}

func TestNextReviewPerBox(t *testing.T) {
	c := newClock(time.UTC)
	midnight := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		box  int
		want time.Time
	}{
		{1, midnight.AddDate(0, 0, 1)},
		{2, midnight.AddDate(0, 0, 2)},
		{3, midnight.AddDate(0, 0, 3)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.NextReview(tt.box, t0), "box %d", tt.box)
	}
}

func TestNextReviewFallbackForUnknownBox(t *testing.T) {
	c := newClock(time.UTC)

	// Out-of-range boxes fall back to one day from the given instant,
	// not from midnight.
	for _, box := range []int{0, 4, -1, 99} {
		assert.Equal(t, t0.Add(24*time.Hour), c.NextReview(box, t0), "box %d", box)
	}
}

func TestIsDue(t *testing.T) {
	c := newClock(time.UTC)

	tests := []struct {
		name       string
		nextReview string
		want       bool
	}{
		{"past day", "2025-06-14T09:00:00Z", true},
		{"same day earlier", "2025-06-15T00:00:00Z", true},
		{"same day later", "2025-06-15T23:59:00Z", true},
		{"future day", "2025-06-16T00:00:00Z", false},
		{"malformed fails closed", "not-a-date", false},
		{"empty fails closed", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsDue(tt.nextReview, t0))
		})
	}
}

func TestSameLocalDay(t *testing.T) {
	c := newClock(time.UTC)

	assert.True(t, c.SameLocalDay("2025-06-15T01:00:00Z", t0))
	assert.False(t, c.SameLocalDay("2025-06-14T23:59:59Z", t0))
	assert.False(t, c.SameLocalDay("garbage", t0))
}

func TestNilLocationDefaultsToLocal(t *testing.T) {
	c := New(nil, zap.NewNop())
	require.NotNil(t, c.Location())
}
