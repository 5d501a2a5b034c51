package utils

import (
	"sync"

	"civic-engagement-system/models"

	"gorm.io/gorm"
)

// KVStore is the single abstraction over durable key-value state (claim
// timestamps, UI flags). Tests substitute the in-memory variant.
type KVStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}

// GormKVStore persists entries in the kv_entries table.
type GormKVStore struct {
	DB *gorm.DB
}

func NewGormKVStore(db *gorm.DB) *GormKVStore {
	return &GormKVStore{DB: db}
}

func (s *GormKVStore) Get(key string) (string, bool) {
	var entry models.KVEntry
	if err := s.DB.First(&entry, "key = ?", key).Error; err != nil {
		return "", false
	}
	return entry.Value, true
}

func (s *GormKVStore) Set(key, value string) error {
	entry := models.KVEntry{Key: key, Value: value}
	return s.DB.Save(&entry).Error
}

func (s *GormKVStore) Remove(key string) error {
	return s.DB.Delete(&models.KVEntry{}, "key = ?", key).Error
}

// MemoryKVStore is the test double.
type MemoryKVStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewMemoryKVStore() *MemoryKVStore {
	return &MemoryKVStore{entries: make(map[string]string)}
}

func (s *MemoryKVStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	return v, ok
}

func (s *MemoryKVStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

func (s *MemoryKVStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
