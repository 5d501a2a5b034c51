package models

import (
	"time"

	gorm "gorm.io/gorm"
)

// ReportStatus tracks the municipal handling of a citizen report
type ReportStatus string

const (
	ReportStatusPending    ReportStatus = "pending"
	ReportStatusInProgress ReportStatus = "in_progress"
	ReportStatusResolved   ReportStatus = "resolved"
	ReportStatusRejected   ReportStatus = "rejected"
)

type ReportUrgency string

const (
	UrgencyLow    ReportUrgency = "low"
	UrgencyMedium ReportUrgency = "medium"
	UrgencyHigh   ReportUrgency = "high"
)

// CityReport is a citizen report about urban issues (potholes, lighting, ...)
type CityReport struct {
	ID          string         `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string         `gorm:"index;not null" json:"user_id"`
	Category    string         `gorm:"not null" json:"category"` // roads, lighting, green_areas, other
	Urgency     ReportUrgency  `gorm:"not null;default:'medium'" json:"urgency"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Address     string         `gorm:"not null" json:"address"`
	Latitude    float64        `json:"latitude"`
	Longitude   float64        `json:"longitude"`
	PhotoURL    string         `gorm:"type:text" json:"photo_url"`
	Status      ReportStatus   `gorm:"not null;default:'pending';index" json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// WasteReport is the abandoned-waste variant with its own taxonomy
type WasteReport struct {
	ID          string         `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string         `gorm:"index;not null" json:"user_id"`
	WasteType   string         `gorm:"not null" json:"waste_type"` // bulky, hazardous, organic, mixed
	Description string         `gorm:"type:text;not null" json:"description"`
	Address     string         `gorm:"not null" json:"address"`
	Latitude    float64        `json:"latitude"`
	Longitude   float64        `json:"longitude"`
	PhotoURL    string         `gorm:"type:text" json:"photo_url"`
	Status      ReportStatus   `gorm:"not null;default:'pending';index" json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
