package progress

// Badge is a cosmetic unlock gated by the completed session count.
type Badge struct {
	ID        string
	Name      string
	Icon      string
	Threshold int
}

// Unlocked reports whether completed sessions reach the badge threshold.
func (badge Badge) Unlocked(completed int) bool {
	return completed >= badge.Threshold
}

// Badges is the static catalog, ordered by threshold.
var Badges = []Badge{
	{ID: "first", Name: "Blossom Starter", Icon: "🌸", Threshold: 1},
	{ID: "streak3", Name: "Sweet Streak", Icon: "🍬", Threshold: 3},
	{ID: "ribbon5", Name: "Ribbon of Focus", Icon: "🎀", Threshold: 5},
	{ID: "galaxy10", Name: "Galaxy Mind", Icon: "🌟", Threshold: 10},
	{ID: "queen15", Name: "Focus Queen", Icon: "👑", Threshold: 15},
}

// UnlockedBadges returns the catalog entries unlocked at completed sessions.
func UnlockedBadges(completed int) []Badge {
	unlocked := make([]Badge, 0, len(Badges))
	for _, badge := range Badges {
		if badge.Unlocked(completed) {
			unlocked = append(unlocked, badge)
		}
	}
	return unlocked
}

// NextBadge returns the first badge still locked at completed sessions.
func NextBadge(completed int) (Badge, bool) {
	for _, badge := range Badges {
		if !badge.Unlocked(completed) {
			return badge, true
		}
	}
	return Badge{}, false
}
