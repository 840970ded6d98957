package models

// Filters selects which set types count toward volume totals and 1RM
// estimates. Main sets are always included. Completion checks ignore
// filters entirely.
type Filters struct {
	IncludeWarmup   bool `json:"include_warmup"`
	IncludeDropSet  bool `json:"include_dropset"`
	IncludeCooldown bool `json:"include_cooldown"`
}

// Includes reports whether sets of the given type pass the filters.
func (f Filters) Includes(t SetType) bool {
	switch t {
	case SetWarmup:
		return f.IncludeWarmup
	case SetDropSet:
		return f.IncludeDropSet
	case SetCooldown:
		return f.IncludeCooldown
	default:
		return true
	}
}

// Settings is the per-user configuration passed explicitly into every
// aggregator and stats call, plus the persisted longest-streak high-water
// mark (a one-way ratchet, see stats.Streak).
type Settings struct {
	UserID        int     `json:"user_id"`
	Filters       Filters `json:"filters"`
	ShowRIR       bool    `json:"show_rir"`
	WeightUnit    string  `json:"weight_unit"`
	WeeklyTarget  int     `json:"weekly_target"`
	LongestStreak int     `json:"longest_streak"`
}

// DefaultSettings returns the settings a new user starts with: drop sets
// count toward totals, warm-ups and cool-downs do not.
func DefaultSettings(userID int) Settings {
	return Settings{
		UserID:       userID,
		Filters:      Filters{IncludeDropSet: true},
		ShowRIR:      true,
		WeightUnit:   "kg",
		WeeklyTarget: 3,
	}
}
