package entities

import (
	"errors"
	"fmt"
)

// Box bounds for the three-box review ladder.
const (
	MinBox = 1 // new / weakest
	MaxBox = 3 // mastered
)

var ErrInvalidRecord = errors.New("invalid review record")

// ReviewRecord stores the review state of a single item. It is also the wire
// shape persisted through the key-value store: one JSON object per item,
// keyed by item id.
//
// Timestamps are kept as RFC3339 strings rather than time.Time so that a
// malformed stored date survives decoding and can fail closed at the point
// of use instead of corrupting the whole map.
type ReviewRecord struct {
	ItemID            string `json:"itemId"`
	CurrentBox        int    `json:"currentBox"`
	NextReviewDate    string `json:"nextReviewDate"`
	TimesCorrect      int    `json:"timesCorrect"`
	TimesIncorrect    int    `json:"timesIncorrect"`
	LastReviewed      string `json:"lastReviewed"`
	LastAnswerCorrect bool   `json:"lastAnswerCorrect"`
}

// NewReviewRecord creates the lazily-initialized record for an item's first
// answer: box 1, no history.
func NewReviewRecord(itemID string) *ReviewRecord {
	return &ReviewRecord{
		ItemID:     itemID,
		CurrentBox: MinBox,
	}
}

// Advance applies the box-transition rule and updates the lifetime counters.
// A correct answer moves the record up one box, capped at MaxBox; an
// incorrect answer always resets it to box 1. Returns the from/to boxes.
func (r *ReviewRecord) Advance(correct bool) (from, to int) {
	from = r.CurrentBox

	if correct {
		to = from + 1
		if to > MaxBox {
			to = MaxBox
		}
		r.TimesCorrect++
	} else {
		to = MinBox
		r.TimesIncorrect++
	}

	r.CurrentBox = to
	r.LastAnswerCorrect = correct
	return from, to
}

// TimesAnswered returns the lifetime answer count.
func (r *ReviewRecord) TimesAnswered() int {
	return r.TimesCorrect + r.TimesIncorrect
}

// Validate checks the structural invariants of a loaded record. A box above
// MaxBox is not reported here: it is a legal input for migration clamping.
func (r *ReviewRecord) Validate() error {
	if r.ItemID == "" {
		return fmt.Errorf("%w: empty item id", ErrInvalidRecord)
	}
	if r.CurrentBox < MinBox {
		return fmt.Errorf("%w: box %d below minimum", ErrInvalidRecord, r.CurrentBox)
	}
	if r.TimesCorrect < 0 || r.TimesIncorrect < 0 {
		return fmt.Errorf("%w: negative answer counters", ErrInvalidRecord)
	}
	return nil
}
