// Package review implements the spaced-repetition core: the box-transition
// state machine, the due-set selector and the stats engine, all working over
// the persisted review map owned by the store package.
package review

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/quizbox/quizbox-bot/internal/dates"
	"github.com/quizbox/quizbox-bot/internal/domain/entities"
	"github.com/quizbox/quizbox-bot/internal/store"
)

var ErrEmptyItemID = errors.New("empty item id")

// Config carries the experimentally-tuned selector constants. They are
// configuration rather than fixed law; the defaults mirror the values the
// product shipped with.
type Config struct {
	// MasteredSampleRate is the per-item probability of pulling a
	// not-yet-due mastered item into a session as a refresher.
	MasteredSampleRate float64
	// MinDueItems is the session floor: when fewer items are naturally
	// due, not-yet-due items are backfilled up to this count.
	MinDueItems int
	// InterleaveCapFactor bounds topic-rotation work at
	// factor * item count iterations.
	InterleaveCapFactor int
}

// DefaultConfig returns the shipped tuning.
func DefaultConfig() Config {
	return Config{
		MasteredSampleRate:  0.5,
		MinDueItems:         50,
		InterleaveCapFactor: 1000,
	}
}

// Engine is the review scheduler. One instance serves one session; the host
// constructs it once and hands it to every consumer.
type Engine struct {
	store  *store.ReviewStore
	clock  *dates.Clock
	logger *zap.Logger
	cfg    Config

	seed     uint32
	now      func() time.Time
	eligible func(entities.Item) bool
}

// New creates an Engine over a loaded (or loading) ReviewStore.
func New(st *store.ReviewStore, clock *dates.Clock, logger *zap.Logger, cfg Config) *Engine {
	if cfg.MasteredSampleRate < 0 || cfg.MasteredSampleRate > 1 {
		cfg.MasteredSampleRate = DefaultConfig().MasteredSampleRate
	}
	if cfg.MinDueItems < 0 {
		cfg.MinDueItems = 0
	}
	if cfg.InterleaveCapFactor <= 0 {
		cfg.InterleaveCapFactor = DefaultConfig().InterleaveCapFactor
	}
	return &Engine{
		store:    st,
		clock:    clock,
		logger:   logger,
		cfg:      cfg,
		seed:     newSeed(),
		now:      time.Now,
		eligible: entities.Item.Reviewable,
	}
}

// DailyTarget returns the configured reviews-per-day goal.
func (e *Engine) DailyTarget() (int, error) {
	if !e.store.Ready() {
		return 0, store.ErrNotLoaded
	}
	return e.store.Settings().DailyTarget, nil
}

// SetDailyTarget updates the reviews-per-day goal. The value must lie in
// [entities.MinDailyTarget, entities.MaxDailyTarget].
func (e *Engine) SetDailyTarget(n int) error {
	settings := e.store.Settings()
	settings.DailyTarget = n
	return e.store.SetSettings(settings)
}
