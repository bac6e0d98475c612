package review

import (
	"context"
	"time"

	"github.com/quizbox/quizbox-bot/internal/domain/entities"
	"github.com/quizbox/quizbox-bot/internal/store"
)

// AnswerResult describes the box transition produced by one answer.
type AnswerResult struct {
	FromBox    int
	ToBox      int
	NextReview time.Time
}

// ProcessAnswer records one answer for an item and reschedules it.
//
// The record is created lazily at box 1 on the first answer; afterwards a
// correct answer climbs one box (capped at 3) and an incorrect answer drops
// straight back to box 1. The next review date is the local midnight of now
// plus the target box's interval. Persistence happens on the store's
// debounce timer; the result is returned immediately.
func (e *Engine) ProcessAnswer(itemID string, correct bool) (AnswerResult, error) {
	if itemID == "" {
		return AnswerResult{}, ErrEmptyItemID
	}
	if !e.store.Ready() {
		return AnswerResult{}, store.ErrNotLoaded
	}

	now := e.now()

	rec, ok := e.store.Record(itemID)
	if !ok {
		rec = *entities.NewReviewRecord(itemID)
	}

	from, to := rec.Advance(correct)
	next := e.clock.NextReview(to, now)

	rec.LastReviewed = now.Format(time.RFC3339)
	rec.NextReviewDate = next.Format(time.RFC3339)

	if err := e.store.Put(rec); err != nil {
		return AnswerResult{}, err
	}

	return AnswerResult{FromBox: from, ToBox: to, NextReview: next}, nil
}

// Reset drops all review progress and settings. This is the explicit
// "clear everything" operation; nothing else deletes records wholesale.
func (e *Engine) Reset(ctx context.Context) error {
	return e.store.Clear(ctx)
}
