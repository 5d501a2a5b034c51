package models

import (
	"time"

	"gorm.io/gorm"
)

// UserProgress tracks gamified progression for each citizen (denormalized for performance)
type UserProgress struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"uniqueIndex;not null" json:"user_id"` // links to identity provider

	DisplayName string `json:"display_name"`

	// Core progression
	TotalXP      int64 `json:"total_xp" gorm:"default:0"`
	CurrentLevel int   `json:"current_level" gorm:"default:1"`

	// Activity counters
	TotalReports int64 `json:"total_reports" gorm:"default:0"`
	TotalClaims  int64 `json:"total_claims" gorm:"default:0"`
	BadgesCount  int64 `json:"badges_count" gorm:"default:0"`

	// Milestones
	LastLevelUpAt *time.Time `json:"last_level_up_at,omitempty"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// UserXPStats is the read model served to widgets. It is always replaced
// wholesale: current_level and level_progress are re-derived from total_xp
// on every build, never patched field by field.
type UserXPStats struct {
	UserID        string  `json:"user_id"`
	TotalXP       int64   `json:"total_xp"`
	CurrentLevel  int     `json:"current_level"`
	LevelProgress float64 `json:"level_progress"` // percent in [0,100)
	XPToNext      int64   `json:"xp_to_next"`
	RankPosition  int64   `json:"rank_position"`
	BadgesCount   int64   `json:"badges_count"`
}

// LeaderboardEntry is one row of the city leaderboard read model.
type LeaderboardEntry struct {
	Rank         int64  `json:"rank"`
	UserID       string `json:"user_id"`
	DisplayName  string `json:"display_name"`
	TotalXP      int64  `json:"total_xp"`
	CurrentLevel int    `json:"current_level"`
	BadgesCount  int64  `json:"badges_count"`
}
