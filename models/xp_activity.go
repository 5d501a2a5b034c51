package models

import (
	"time"
)

// Activity types accepted by the award pipeline. The daily login claim is
// the only one with a server-enforced cooldown.
const (
	ActivityDailyLogin       = "daily_login"
	ActivityReportSubmitted  = "report_submitted"
	ActivityEventCheckin     = "event_checkin"
	ActivityProfileCompleted = "profile_completed"
	ActivityAdminGrant       = "admin_grant"
)

// XPActivity is the append-only award log. One row per confirmed award;
// zero-XP rejections are never recorded.
type XPActivity struct {
	ID           string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID       string    `gorm:"index;not null" json:"user_id"`
	ActivityType string    `gorm:"index;not null" json:"activity_type"`
	XPAmount     int64     `json:"xp_amount"`
	Metadata     string    `gorm:"type:jsonb" json:"metadata"` // e.g., {"report_id": "..."}
	CreatedAt    time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// XPAwards define relative values per activity (tunable via config/env later)
type XPAwards struct {
	DailyLoginXP       int64 `default:"25"`
	ReportXP           int64 `default:"50"`  // 2× daily login
	EventCheckinXP     int64 `default:"30"`
	ProfileCompletedXP int64 `default:"100"` // one-shot
}

var DefaultXPAwards = XPAwards{
	DailyLoginXP:       25,
	ReportXP:           50,
	EventCheckinXP:     30,
	ProfileCompletedXP: 100,
}
