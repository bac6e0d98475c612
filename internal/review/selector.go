package review

import (
	"sort"

	"go.uber.org/zap"

	"github.com/quizbox/quizbox-bot/internal/domain/entities"
	"github.com/quizbox/quizbox-bot/internal/store"
)

// DueItems builds today's review session from the candidate catalog:
// eligible items are annotated with their review state, the due ones are
// collected (plus an occasional mastered refresher), the set is backfilled
// up to the session floor, sorted by urgency with a stable pseudo-random
// tiebreak, and finally interleaved across topics.
//
// The candidate slice is never mutated.
func (e *Engine) DueItems(candidates []entities.Item) ([]entities.OrderedItem, error) {
	if !e.store.Ready() {
		return nil, store.ErrNotLoaded
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	annotated := e.annotate(candidates, e.indexedRecords())

	selected := make([]entities.OrderedItem, 0, len(annotated))
	included := make(map[string]bool, len(annotated))

	// Everything due, plus mastered items sampled per item with the
	// configured probability so refreshers trickle in without flooding
	// the session.
	for _, it := range annotated {
		switch {
		case it.IsDue:
		case it.CurrentBox == entities.MaxBox &&
			stableRandom(it.ID, e.seed^masteredSalt) < e.cfg.MasteredSampleRate:
		default:
			continue
		}
		selected = append(selected, it)
		included[it.ID] = true
	}

	// Backfill with not-yet-due items, in catalog order, so a session is
	// never uselessly short just because little is naturally due.
	if len(selected) < e.cfg.MinDueItems {
		for _, it := range annotated {
			if len(selected) >= e.cfg.MinDueItems {
				break
			}
			if included[it.ID] {
				continue
			}
			selected = append(selected, it)
			included[it.ID] = true
		}
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return e.less(selected[i], selected[j])
	})

	return e.interleaveByTopic(selected), nil
}

func (e *Engine) indexedRecords() map[string]entities.ReviewRecord {
	recs := e.store.Records()
	out := make(map[string]entities.ReviewRecord, len(recs))
	for _, rec := range recs {
		out[rec.ItemID] = rec
	}
	return out
}

func (e *Engine) annotate(candidates []entities.Item, recs map[string]entities.ReviewRecord) []entities.OrderedItem {
	now := e.now()

	annotated := make([]entities.OrderedItem, 0, len(candidates))
	for _, item := range candidates {
		if !e.eligible(item) {
			continue
		}

		rec, ok := recs[item.ID]
		if !ok {
			// Never-answered items are always immediately eligible.
			annotated = append(annotated, entities.OrderedItem{
				Item:       item,
				Priority:   entities.MinBox,
				IsDue:      true,
				CurrentBox: entities.MinBox,
			})
			continue
		}

		annotated = append(annotated, entities.OrderedItem{
			Item:           item,
			Priority:       rec.CurrentBox,
			IsDue:          e.clock.IsDue(rec.NextReviewDate, now),
			CurrentBox:     rec.CurrentBox,
			TimesIncorrect: rec.TimesIncorrect,
		})
	}
	return annotated
}

// less is the selector's total order: due before not due, weaker boxes
// before stronger, struggling items before comfortable ones, and a stable
// seed-keyed tiebreak so equal items keep one order per session.
func (e *Engine) less(a, b entities.OrderedItem) bool {
	if a.IsDue != b.IsDue {
		return a.IsDue
	}
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	if a.TimesIncorrect != b.TimesIncorrect {
		return a.TimesIncorrect > b.TimesIncorrect
	}
	return stableRandom(a.ID, e.seed) < stableRandom(b.ID, e.seed)
}

// interleaveByTopic round-robins one item per topic, topics in encounter
// order, dropping exhausted topics from the rotation. A single topic (or
// an empty list) passes through unchanged. The rotation is capped; hitting
// the cap means a bookkeeping bug and is surfaced instead of looping.
func (e *Engine) interleaveByTopic(items []entities.OrderedItem) []entities.OrderedItem {
	if len(items) < 2 {
		return items
	}

	var topics []string
	groups := make(map[string][]entities.OrderedItem)
	for _, it := range items {
		if _, ok := groups[it.Topic]; !ok {
			topics = append(topics, it.Topic)
		}
		groups[it.Topic] = append(groups[it.Topic], it)
	}
	if len(topics) < 2 {
		return items
	}

	out := make([]entities.OrderedItem, 0, len(items))
	maxIter := e.cfg.InterleaveCapFactor * len(items)
	iter := 0
	pos := 0

	for len(topics) > 0 {
		iter++
		if iter > maxIter {
			e.logger.Error("topic interleaving exceeded iteration cap",
				zap.Int("cap", maxIter),
				zap.Int("placed", len(out)),
			)
			for _, t := range topics {
				out = append(out, groups[t]...)
			}
			return out
		}

		if pos >= len(topics) {
			pos = 0
		}
		topic := topics[pos]

		group := groups[topic]
		out = append(out, group[0])
		group = group[1:]
		groups[topic] = group

		if len(group) == 0 {
			topics = append(topics[:pos], topics[pos+1:]...)
			// pos now points at the next topic; no increment.
			continue
		}
		pos++
	}

	return out
}
