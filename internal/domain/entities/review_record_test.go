package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvance(t *testing.T) {
	tests := []struct {
		name     string
		box      int
		correct  bool
		wantFrom int
		wantTo   int
	}{
		{"correct climbs", 1, true, 1, 2},
		{"correct climbs again", 2, true, 2, 3},
		{"correct caps at top", 3, true, 3, 3},
		{"incorrect resets from top", 3, false, 3, 1},
		{"incorrect resets from middle", 2, false, 2, 1},
		{"incorrect stays at bottom", 1, false, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ReviewRecord{ItemID: "x", CurrentBox: tt.box}
			from, to := rec.Advance(tt.correct)
			assert.Equal(t, tt.wantFrom, from)
			assert.Equal(t, tt.wantTo, to)
			assert.Equal(t, tt.wantTo, rec.CurrentBox)
			assert.Equal(t, tt.correct, rec.LastAnswerCorrect)
		})
	}
}

func TestAdvanceCounters(t *testing.T) {
	rec := NewReviewRecord("x")
	require.Equal(t, MinBox, rec.CurrentBox)

	rec.Advance(true)
	rec.Advance(true)
	rec.Advance(false)

	assert.Equal(t, 2, rec.TimesCorrect)
	assert.Equal(t, 1, rec.TimesIncorrect)
	assert.Equal(t, 3, rec.TimesAnswered())
}

func TestRecordValidate(t *testing.T) {
	valid := ReviewRecord{ItemID: "x", CurrentBox: 2}
	require.NoError(t, valid.Validate())

	// A box above the top is a migration input, not corruption.
	wide := ReviewRecord{ItemID: "x", CurrentBox: 5}
	require.NoError(t, wide.Validate())

	for name, rec := range map[string]ReviewRecord{
		"empty id":         {CurrentBox: 1},
		"box below range":  {ItemID: "x", CurrentBox: 0},
		"negative counter": {ItemID: "x", CurrentBox: 1, TimesCorrect: -1},
	} {
		assert.ErrorIs(t, rec.Validate(), ErrInvalidRecord, name)
	}
}

func TestItemReviewable(t *testing.T) {
	assert.True(t, Item{ID: "x", Options: []string{"a", "b"}, AnswerIndex: 1}.Reviewable())
	assert.False(t, Item{ID: "x"}.Reviewable())
	assert.False(t, Item{ID: "x", Options: []string{"only"}}.Reviewable())
	assert.False(t, Item{ID: "x", Options: []string{"a", "b"}, AnswerIndex: 2}.Reviewable())
	assert.False(t, Item{ID: "x", Options: []string{"a", "b"}, AnswerIndex: -1}.Reviewable())
}

func TestSettingsValidate(t *testing.T) {
	require.NoError(t, NewSettings().Validate())

	for _, n := range []int{MinDailyTarget, MaxDailyTarget, 250} {
		assert.NoError(t, Settings{DailyTarget: n}.Validate(), "target %d", n)
	}
	for _, n := range []int{0, -5, MaxDailyTarget + 1} {
		assert.ErrorIs(t, Settings{DailyTarget: n}.Validate(), ErrInvalidDailyTarget, "target %d", n)
	}
}
