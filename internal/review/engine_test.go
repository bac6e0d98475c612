package review

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quizbox/quizbox-bot/internal/dates"
	"github.com/quizbox/quizbox-bot/internal/domain/entities"
	"github.com/quizbox/quizbox-bot/internal/kvstore"
	"github.com/quizbox/quizbox-bot/internal/store"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

// newTestEngine builds an engine over a freshly loaded in-memory store with
// a pinned clock.
func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()

	clock := dates.New(time.UTC, zap.NewNop())
	st := store.New(kvstore.NewMemory(), clock, zap.NewNop(), store.Options{
		SaveDebounce: time.Millisecond,
	})
	require.NoError(t, st.Load(context.Background()))

	e := New(st, clock, zap.NewNop(), cfg)
	e.now = func() time.Time { return testNow }
	return e
}

// seedRecord plants a record directly in the engine's store.
func seedRecord(t *testing.T, e *Engine, rec entities.ReviewRecord) {
	t.Helper()
	require.NoError(t, e.store.Put(rec))
}

// catalogItems builds n eligible items, round-robining over topics.
func catalogItems(n int, topics ...string) []entities.Item {
	if len(topics) == 0 {
		topics = []string{"general"}
	}
	items := make([]entities.Item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, entities.Item{
			ID:       fmt.Sprintf("item-%03d", i),
			Topic:    topics[i%len(topics)],
			Question: fmt.Sprintf("question %d", i),
			Options:  []string{"a", "b", "c", "d"},
		})
	}
	return items
}

func rfc3339(t time.Time) string {
	return t.Format(time.RFC3339)
}

func TestConfigSanitization(t *testing.T) {
	e := newTestEngine(t, Config{MasteredSampleRate: 1.5, MinDueItems: -3})

	require.Equal(t, DefaultConfig().MasteredSampleRate, e.cfg.MasteredSampleRate)
	require.Equal(t, 0, e.cfg.MinDueItems)
	require.Equal(t, DefaultConfig().InterleaveCapFactor, e.cfg.InterleaveCapFactor)
}

func TestDailyTargetRoundTrip(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())

	target, err := e.DailyTarget()
	require.NoError(t, err)
	require.Equal(t, entities.DefaultDailyTarget, target)

	require.NoError(t, e.SetDailyTarget(60))
	target, err = e.DailyTarget()
	require.NoError(t, err)
	require.Equal(t, 60, target)
}

func TestSetDailyTargetValidation(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())

	for _, n := range []int{0, -1, 501, 100000} {
		err := e.SetDailyTarget(n)
		require.ErrorIs(t, err, entities.ErrInvalidDailyTarget, "target %d", n)
	}

	// A rejected update leaves the previous value untouched.
	target, err := e.DailyTarget()
	require.NoError(t, err)
	require.Equal(t, entities.DefaultDailyTarget, target)

	require.NoError(t, e.SetDailyTarget(entities.MinDailyTarget))
	require.NoError(t, e.SetDailyTarget(entities.MaxDailyTarget))
}
