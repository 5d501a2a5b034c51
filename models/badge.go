package models

import (
	"time"
)

// BadgeType: static config (loaded from DB or seeded from BadgeTriggers)
type BadgeType struct {
	ID          string `gorm:"primaryKey;type:uuid"`
	Code        string `gorm:"uniqueIndex;not null"` // e.g., "FIRST_REPORT", "CIVIC_HERO"
	Name        string `gorm:"not null"`             // "Prima Segnalazione", "Eroe Civico"
	Description string
	IconURL     string           `gorm:"type:text"`
	Rarity      string           `gorm:"type:varchar(16);default:'common'"` // common, rare, epic, legendary
	Threshold   map[string]int64 `gorm:"serializer:json;type:jsonb"`        // e.g., {"total_reports": 10}, {"level": 5}
	CreatedAt   time.Time        `gorm:"autoCreateTime"`
}

// UserBadge: awarded instance (many-to-many)
type UserBadge struct {
	ID          string    `gorm:"primaryKey;type:uuid"`
	UserID      string    `gorm:"index;not null"`
	BadgeTypeID string    `gorm:"index;not null"`
	AwardedAt   time.Time `gorm:"autoCreateTime"`
	Metadata    string    `gorm:"type:jsonb"` // e.g., {"report_id": "..."}
}

// Predefined badge triggers evaluated after every progress update
var BadgeTriggers = []BadgeType{
	{
		Code:        "WELCOME",
		Name:        "Benvenuto!",
		Description: "Joined MyCivitanova",
		Rarity:      "common",
		Threshold:   map[string]int64{"event": 1}, // awarded on first award
	},
	{
		Code:        "FIRST_REPORT",
		Name:        "Prima Segnalazione",
		Description: "Submitted your first city report",
		Rarity:      "common",
		Threshold:   map[string]int64{"total_reports": 1},
	},
	{
		Code:        "REPORTER_10",
		Name:        "Sentinella",
		Description: "Submitted 10 city reports",
		Rarity:      "rare",
		Threshold:   map[string]int64{"total_reports": 10},
	},
	{
		Code:        "WEEK_STREAK",
		Name:        "Habitué",
		Description: "Claimed the daily bonus 7 times",
		Rarity:      "rare",
		Threshold:   map[string]int64{"total_claims": 7},
	},
	{
		Code:        "LEVEL_5",
		Name:        "Cittadino Attivo",
		Description: "Reached Level 5",
		Rarity:      "rare",
		Threshold:   map[string]int64{"level": 5},
	},
	{
		Code:        "LEVEL_10",
		Name:        "Eroe Civico",
		Description: "Reached Level 10",
		Rarity:      "epic",
		Threshold:   map[string]int64{"level": 10},
	},
}
