package models

import (
	"time"

	gorm "gorm.io/gorm"
)

// Event represents a municipal event (concerts, markets, council meetings)
type Event struct {
	ID          string         `gorm:"primaryKey;type:uuid" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`
	Description string         `gorm:"type:text" json:"description"`
	Location    string         `json:"location"`
	Category    string         `gorm:"default:'general'" json:"category"`
	ImageURL    string         `gorm:"type:text" json:"image_url"`
	StartsAt    time.Time      `gorm:"index;not null" json:"starts_at"`
	EndsAt      *time.Time     `json:"ends_at,omitempty"`
	Status      PublishStatus  `gorm:"not null;default:'draft'" json:"status"`
	PublishAt   *time.Time     `json:"publish_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
