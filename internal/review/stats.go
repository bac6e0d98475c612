package review

import (
	"time"

	"github.com/quizbox/quizbox-bot/internal/domain/entities"
	"github.com/quizbox/quizbox-bot/internal/store"
)

// streakScanDays bounds the backward streak scan.
const streakScanDays = 30

// Stats aggregates box distribution, accuracy, streak and daily-target
// progress across the catalog. It is read-only and can run at any time
// after the store has loaded.
func (e *Engine) Stats(items []entities.Item) (entities.StatsSummary, error) {
	if !e.store.Ready() {
		return entities.StatsSummary{}, store.ErrNotLoaded
	}

	recs := e.indexedRecords()
	now := e.now()

	summary := entities.StatsSummary{
		TotalCount:      len(items),
		BoxDistribution: map[int]int{1: 0, 2: 0, 3: 0},
	}

	totalCorrect := 0
	totalAnswered := 0
	for _, item := range items {
		rec, ok := recs[item.ID]
		if !ok {
			// Unanswered items sit in box 1 conceptually.
			summary.BoxDistribution[entities.MinBox]++
			continue
		}
		summary.StartedCount++
		summary.BoxDistribution[rec.CurrentBox]++
		totalCorrect += rec.TimesCorrect
		totalAnswered += rec.TimesAnswered()
	}
	if totalAnswered > 0 {
		summary.AccuracyRate = float64(totalCorrect) / float64(totalAnswered)
	}

	allRecords := e.store.Records()
	summary.StreakDays = e.streakDays(allRecords, now)

	progress := e.targetProgress(allRecords, now)
	summary.DueToday = progress.Remaining

	return summary, nil
}

// TargetProgress reports how far today's reviews have come toward the
// daily target.
func (e *Engine) TargetProgress() (entities.TargetProgress, error) {
	if !e.store.Ready() {
		return entities.TargetProgress{}, store.ErrNotLoaded
	}
	return e.targetProgress(e.store.Records(), e.now()), nil
}

func (e *Engine) targetProgress(records []entities.ReviewRecord, now time.Time) entities.TargetProgress {
	target := e.store.Settings().DailyTarget

	completed := 0
	for _, rec := range records {
		if e.clock.SameLocalDay(rec.LastReviewed, now) {
			completed++
		}
	}

	remaining := target - completed
	if remaining < 0 {
		remaining = 0
	}

	percentage := 0
	if target > 0 {
		percentage = 100 * completed / target
		if percentage > 100 {
			percentage = 100
		}
	}

	return entities.TargetProgress{
		Target:     target,
		Completed:  completed,
		Remaining:  remaining,
		Percentage: percentage,
	}
}

// streakDays counts consecutive local calendar days with review activity,
// scanning backward from today. A quiet today does not break a streak built
// on prior days; the first quiet day before that does.
func (e *Engine) streakDays(records []entities.ReviewRecord, now time.Time) int {
	active := make(map[string]bool, len(records))
	for _, rec := range records {
		if rec.LastReviewed == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, rec.LastReviewed)
		if err != nil {
			continue
		}
		active[e.clock.LocalDay(t)] = true
	}

	streak := 0
	for back := 0; back < streakScanDays; back++ {
		day := e.clock.LocalDay(now.AddDate(0, 0, -back))
		if active[day] {
			streak++
			continue
		}
		if back == 0 {
			// One day of grace: today just hasn't happened yet.
			continue
		}
		break
	}
	return streak
}
