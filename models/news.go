package models

import (
	"time"

	gorm "gorm.io/gorm"
)

// PublishStatus drives the editorial lifecycle of news and events
type PublishStatus string

const (
	StatusDraft     PublishStatus = "draft"
	StatusScheduled PublishStatus = "scheduled"
	StatusPublished PublishStatus = "published"
	StatusArchived  PublishStatus = "archived"
)

type NewsCategory string

const (
	NewsCategoryGeneral NewsCategory = "general"
	NewsCategoryTraffic NewsCategory = "traffic"
	NewsCategoryCulture NewsCategory = "culture"
	NewsCategoryBeach   NewsCategory = "beach"
	NewsCategoryWorks   NewsCategory = "public_works"
)

// NewsItem represents a municipal news article
type NewsItem struct {
	ID        string         `gorm:"primaryKey;type:uuid" json:"id"`
	Title     string         `gorm:"not null" json:"title"`
	Slug      string         `gorm:"uniqueIndex;not null" json:"slug"`
	Excerpt   string         `gorm:"type:text" json:"excerpt"`
	Body      string         `gorm:"type:text" json:"body"`
	Category  NewsCategory   `gorm:"not null;default:'general'" json:"category"`
	ImageURL  string         `gorm:"type:text" json:"image_url"`
	AuthorID  string         `gorm:"index" json:"author_id"`
	Status    PublishStatus  `gorm:"not null;default:'draft'" json:"status"`
	PublishAt *time.Time     `json:"publish_at,omitempty"` // set when status == scheduled
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
