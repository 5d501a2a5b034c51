package models

import (
	"time"
)

// ConditionSnapshot mirrors the latest beach/weather readings pulled from the
// upstream marine service. Widgets always read the newest row per source;
// stale rows are pruned by the scheduler.
type ConditionSnapshot struct {
	ID           string    `gorm:"primaryKey;type:uuid" json:"id"`
	Source       string    `gorm:"index;not null" json:"source"` // "beach" or "weather"
	TemperatureC float64   `json:"temperature_c"`
	SeaState     string    `json:"sea_state"` // calm, moderate, rough
	WindKph      float64   `json:"wind_kph"`
	Humidity     int       `json:"humidity"`
	Flag         string    `json:"flag"` // green, yellow, red
	FetchedAt    time.Time `gorm:"index;not null" json:"fetched_at"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// KVEntry backs the durable key-value store used for per-user claim
// timestamps and UI flags.
type KVEntry struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
