// Package progress derives levels and badge unlocks from accumulated progress.
package progress

// Level returns the 1-based level reached with xp.
func Level(xp, xpPerLevel int) int {
	if xpPerLevel <= 0 || xp < 0 {
		return 1
	}
	return xp/xpPerLevel + 1
}

// XPIntoLevel returns the XP earned since the last level threshold.
func XPIntoLevel(xp, xpPerLevel int) int {
	if xpPerLevel <= 0 || xp < 0 {
		return 0
	}
	return xp % xpPerLevel
}

// ProgressPercent returns how far xp is into the current level, in [0, 100).
func ProgressPercent(xp, xpPerLevel int) float64 {
	if xpPerLevel <= 0 {
		return 0
	}
	return 100 * float64(XPIntoLevel(xp, xpPerLevel)) / float64(xpPerLevel)
}
