package entities

import "errors"

// Daily target bounds.
const (
	MinDailyTarget     = 1
	MaxDailyTarget     = 500
	DefaultDailyTarget = 20
)

var ErrInvalidDailyTarget = errors.New("daily target out of range")

// Settings holds user preferences persisted separately from the review map.
type Settings struct {
	DailyTarget int `json:"dailyTarget"`
}

// NewSettings returns settings with default values.
func NewSettings() Settings {
	return Settings{DailyTarget: DefaultDailyTarget}
}

// Validate checks the settings ranges.
func (s Settings) Validate() error {
	if s.DailyTarget < MinDailyTarget || s.DailyTarget > MaxDailyTarget {
		return ErrInvalidDailyTarget
	}
	return nil
}
