// Package store owns the in-memory review map and keeps it synchronized
// with an injected key-value medium: structural validation on load, a
// clamping migration for old multi-box schemas, debounced trailing-edge
// writes, and a cleanup-and-retry pass when the medium rejects a write.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/quizbox/quizbox-bot/internal/dates"
	"github.com/quizbox/quizbox-bot/internal/domain/entities"
	"github.com/quizbox/quizbox-bot/internal/kvstore"
)

// Keys under which the two persisted blobs live in the key-value medium.
const (
	recordsKey  = "review:records"
	settingsKey = "review:settings"
)

// ErrNotLoaded is returned when the store is used before Load completed.
var ErrNotLoaded = errors.New("review store not loaded")

// Options tunes the write and eviction behavior.
type Options struct {
	// SaveDebounce is the coalescing window for mutations: several Puts
	// within the window produce one trailing-edge write.
	SaveDebounce time.Duration
	// EvictAfter is the age past which untouched mastered records are
	// dropped to bound storage growth.
	EvictAfter time.Duration
}

// DefaultOptions returns the production tuning.
func DefaultOptions() Options {
	return Options{
		SaveDebounce: 100 * time.Millisecond,
		EvictAfter:   30 * 24 * time.Hour,
	}
}

// ReviewStore holds every item's ReviewRecord plus the user Settings and
// synchronizes both with the key-value medium. The mutex exists because the
// debounced save fires on a timer goroutine; all other access is the host's
// single session.
type ReviewStore struct {
	kv     kvstore.Store
	clock  *dates.Clock
	logger *zap.Logger
	opts   Options

	mu        sync.Mutex
	loaded    bool
	records   map[string]*entities.ReviewRecord
	settings  entities.Settings
	saveTimer *time.Timer
}

// New creates a ReviewStore over the given medium. Call Load before use.
func New(kv kvstore.Store, clock *dates.Clock, logger *zap.Logger, opts Options) *ReviewStore {
	if opts.SaveDebounce <= 0 {
		opts.SaveDebounce = DefaultOptions().SaveDebounce
	}
	if opts.EvictAfter <= 0 {
		opts.EvictAfter = DefaultOptions().EvictAfter
	}
	return &ReviewStore{
		kv:      kv,
		clock:   clock,
		logger:  logger,
		opts:    opts,
		records: make(map[string]*entities.ReviewRecord),
	}
}

// Load reads and validates both persisted blobs. Corrupt state is discarded
// wholesale and the store starts empty; Load itself only fails on a medium
// read error other than absence. If the migration clamp or the stale-record
// cleanup changed anything, the result is persisted once right away.
func (s *ReviewStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed, err := s.loadRecordsLocked(ctx)
	if err != nil {
		return err
	}
	if err := s.loadSettingsLocked(ctx); err != nil {
		return err
	}

	s.loaded = true

	if changed {
		if err := s.flushLocked(ctx); err != nil {
			s.logger.Warn("failed to persist migrated review state", zap.Error(err))
		}
	}
	return nil
}

func (s *ReviewStore) loadRecordsLocked(ctx context.Context) (changed bool, err error) {
	blob, err := s.kv.Get(ctx, recordsKey)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("read review records: %w", err)
	}

	var loaded map[string]*entities.ReviewRecord
	if err := json.Unmarshal([]byte(blob), &loaded); err != nil {
		s.logger.Warn("stored review records are corrupt, starting empty", zap.Error(err))
		return false, nil
	}

	migrated := 0
	for id, rec := range loaded {
		if rec == nil || rec.ItemID != id || rec.Validate() != nil {
			// Corrupt data must not be guessed at: one bad record
			// discards the whole map.
			s.logger.Warn("stored review records failed validation, starting empty",
				zap.String("item_id", id),
			)
			return false, nil
		}
		if rec.CurrentBox > entities.MaxBox {
			// Schema evolution: a prior version had more boxes.
			rec.CurrentBox = entities.MaxBox
			rec.NextReviewDate = s.recomputedNextReview(rec)
			migrated++
		}
	}

	s.records = loaded
	if migrated > 0 {
		s.logger.Info("clamped records from a wider box schema", zap.Int("count", migrated))
	}

	evicted := s.cleanupLocked(time.Now())
	return migrated > 0 || evicted > 0, nil
}

func (s *ReviewStore) recomputedNextReview(rec *entities.ReviewRecord) string {
	from := time.Now()
	if t, err := time.Parse(time.RFC3339, rec.LastReviewed); err == nil {
		from = t
	}
	return s.clock.NextReview(rec.CurrentBox, from).Format(time.RFC3339)
}

func (s *ReviewStore) loadSettingsLocked(ctx context.Context) error {
	s.settings = entities.NewSettings()

	blob, err := s.kv.Get(ctx, settingsKey)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil
		}
		return fmt.Errorf("read settings: %w", err)
	}

	var loaded entities.Settings
	if err := json.Unmarshal([]byte(blob), &loaded); err != nil {
		s.logger.Warn("stored settings are corrupt, using defaults", zap.Error(err))
		return nil
	}
	if err := loaded.Validate(); err != nil {
		s.logger.Warn("stored settings are out of range, using defaults", zap.Error(err))
		return nil
	}

	s.settings = loaded
	return nil
}

// Ready reports whether Load has completed.
func (s *ReviewStore) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Record returns a copy of the record for itemID, if one exists.
func (s *ReviewStore) Record(itemID string) (entities.ReviewRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[itemID]
	if !ok {
		return entities.ReviewRecord{}, false
	}
	return *rec, true
}

// Records returns a snapshot of all records.
func (s *ReviewStore) Records() []entities.ReviewRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entities.ReviewRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, *rec)
	}
	return out
}

// Put stores a record and schedules a debounced write.
func (s *ReviewStore) Put(rec entities.ReviewRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return ErrNotLoaded
	}
	if err := rec.Validate(); err != nil {
		return err
	}

	stored := rec
	s.records[rec.ItemID] = &stored
	s.scheduleSaveLocked()
	return nil
}

// Settings returns the current settings.
func (s *ReviewStore) Settings() entities.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// SetSettings validates, stores and schedules a debounced write.
func (s *ReviewStore) SetSettings(settings entities.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return ErrNotLoaded
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	s.settings = settings
	s.scheduleSaveLocked()
	return nil
}

// Clear drops all review progress and resets settings to defaults, removing
// both blobs from the medium immediately (no debounce for a destructive,
// explicitly requested operation).
func (s *ReviewStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return ErrNotLoaded
	}

	s.records = make(map[string]*entities.ReviewRecord)
	s.settings = entities.NewSettings()
	s.cancelSaveLocked()

	if err := s.kv.Delete(ctx, recordsKey); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}
	if err := s.kv.Delete(ctx, settingsKey); err != nil {
		return fmt.Errorf("clear settings: %w", err)
	}
	return nil
}

// scheduleSaveLocked arms the trailing-edge save timer, replacing any timer
// already pending so a burst of mutations coalesces into one write.
func (s *ReviewStore) scheduleSaveLocked() {
	s.cancelSaveLocked()
	s.saveTimer = time.AfterFunc(s.opts.SaveDebounce, func() {
		if err := s.Flush(context.Background()); err != nil {
			s.logger.Warn("debounced save failed, progress kept in memory", zap.Error(err))
		}
	})
}

func (s *ReviewStore) cancelSaveLocked() {
	if s.saveTimer != nil {
		s.saveTimer.Stop()
		s.saveTimer = nil
	}
}

// Flush writes both blobs now. On a write failure (e.g. quota exhaustion)
// it evicts stale mastered records and retries exactly once; if the retry
// also fails the in-memory state is preserved and the error reported.
func (s *ReviewStore) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return ErrNotLoaded
	}
	return s.flushLocked(ctx)
}

func (s *ReviewStore) flushLocked(ctx context.Context) error {
	s.cancelSaveLocked()

	if err := s.writeRecordsLocked(ctx); err != nil {
		s.logger.Warn("review record write failed, evicting stale records and retrying",
			zap.Error(err),
		)
		evicted := s.cleanupLocked(time.Now())
		s.logger.Info("evicted stale mastered records", zap.Int("count", evicted))

		if err := s.writeRecordsLocked(ctx); err != nil {
			return fmt.Errorf("write review records after cleanup: %w", err)
		}
	}

	blob, err := json.Marshal(s.settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := s.kv.Set(ctx, settingsKey, string(blob)); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

func (s *ReviewStore) writeRecordsLocked(ctx context.Context) error {
	blob, err := json.Marshal(s.records)
	if err != nil {
		return fmt.Errorf("encode review records: %w", err)
	}
	return s.kv.Set(ctx, recordsKey, string(blob))
}

// cleanupLocked evicts mastered (box 3) records whose last review is older
// than the eviction age. Records below box 3 are never evicted, and a
// mastered record with an unparseable timestamp is kept.
func (s *ReviewStore) cleanupLocked(now time.Time) int {
	evicted := 0
	for id, rec := range s.records {
		if rec.CurrentBox != entities.MaxBox {
			continue
		}
		last, err := time.Parse(time.RFC3339, rec.LastReviewed)
		if err != nil {
			continue
		}
		if now.Sub(last) > s.opts.EvictAfter {
			delete(s.records, id)
			evicted++
		}
	}
	return evicted
}

// Close stops the debounce timer and performs a final synchronous flush.
func (s *ReviewStore) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return nil
	}
	return s.flushLocked(ctx)
}
