package entities

// StatsSummary aggregates review state across the whole catalog.
type StatsSummary struct {
	TotalCount      int         // catalog size
	StartedCount    int         // items with at least one recorded answer
	BoxDistribution map[int]int // items per box; unanswered items count as box 1
	DueToday        int         // reviews remaining toward today's target
	AccuracyRate    float64     // lifetime correct / answered, 0 when nothing answered
	StreakDays      int         // consecutive recent days with review activity
}

// TargetProgress describes today's progress against the daily target.
type TargetProgress struct {
	Target     int
	Completed  int
	Remaining  int
	Percentage int // capped at 100
}
