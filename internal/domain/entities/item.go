package entities

// Item is one catalog entry: a multiple-choice question belonging to a topic.
// The catalog is read-only input; the scheduler never mutates it.
type Item struct {
	ID          string   `json:"id"`
	Topic       string   `json:"topic"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answerIndex"`
}

// Reviewable reports whether the item can appear in a spaced-review session.
// Items without selectable options cannot be asked as quiz questions.
func (i Item) Reviewable() bool {
	return len(i.Options) >= 2 && i.AnswerIndex >= 0 && i.AnswerIndex < len(i.Options)
}

// OrderedItem is an Item annotated with its review state, as returned by the
// due-set selector.
type OrderedItem struct {
	Item

	Priority       int  // current box; lower sorts first
	IsDue          bool
	CurrentBox     int
	TimesIncorrect int
}
