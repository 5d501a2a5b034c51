package services

import (
	"errors"
)

// XPPerLevel is the fixed width of every level. Level N covers
// [(N-1)*250, N*250) total XP; there is no level cap.
const XPPerLevel int64 = 250

var ErrNegativeXP = errors.New("total XP cannot be negative")

// LevelBreakdown is the derived view of a raw XP total.
type LevelBreakdown struct {
	Level       int     `json:"level"`
	XPIntoLevel int64   `json:"xp_into_level"`
	XPToNext    int64   `json:"xp_to_next"`
	ProgressPct float64 `json:"progress_pct"` // [0,100), exactly 0 at a boundary
}

// LevelForXP maps a total XP to its level (1-based).
func LevelForXP(totalXP int64) (int, error) {
	if totalXP < 0 {
		return 0, ErrNegativeXP
	}
	return int(totalXP/XPPerLevel) + 1, nil
}

// BreakdownForXP derives level, in-level XP and progress from a total.
func BreakdownForXP(totalXP int64) (LevelBreakdown, error) {
	level, err := LevelForXP(totalXP)
	if err != nil {
		return LevelBreakdown{}, err
	}

	into := totalXP - int64(level-1)*XPPerLevel
	return LevelBreakdown{
		Level:       level,
		XPIntoLevel: into,
		XPToNext:    XPPerLevel - into,
		ProgressPct: 100 * float64(into) / float64(XPPerLevel),
	}, nil
}
