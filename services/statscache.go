package services

import (
	"context"
	"sync"

	"civic-engagement-system/models"
)

// DemoStats is the deterministic dataset served to anonymous visitors so
// widgets stay functional without a backend round-trip. Derived fields obey
// the same 250-XP-per-level rule as real data.
var DemoStats = models.UserXPStats{
	UserID:        "guest",
	TotalXP:       1120,
	CurrentLevel:  5,
	LevelProgress: 48,
	XPToNext:      130,
	RankPosition:  42,
	BadgesCount:   3,
}

// StatsCache holds the last-fetched stats snapshot for one user. The
// snapshot is replaced wholesale on success and retained on failure.
// Concurrent fetches are ordered by issue sequence: a response from an
// older request never overwrites one from a newer request.
type StatsCache struct {
	gateway AwardGateway
	userID  string

	mu       sync.Mutex
	snapshot models.UserXPStats
	lastErr  error
	nextSeq  uint64
	applied  uint64
}

// NewStatsCache builds a cache for userID. An empty userID means guest
// mode: the demo dataset is installed synchronously and Fetch never calls
// the gateway.
func NewStatsCache(gateway AwardGateway, userID string) *StatsCache {
	c := &StatsCache{gateway: gateway, userID: userID}
	if userID == "" {
		c.snapshot = DemoStats
	}
	return c
}

// Fetch refreshes the snapshot from the gateway. On error the previous
// snapshot stays visible and the error is recorded, never thrown into
// Snapshot consumers.
func (c *StatsCache) Fetch(ctx context.Context) error {
	if c.userID == "" {
		return nil
	}

	c.mu.Lock()
	c.nextSeq++
	seq := c.nextSeq
	c.mu.Unlock()

	stats, err := c.gateway.GetUserStats(ctx, c.userID)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.lastErr = err
		return err
	}
	if seq < c.applied {
		// A newer request already resolved; drop this stale response.
		return nil
	}
	c.snapshot = *stats
	c.applied = seq
	c.lastErr = nil
	return nil
}

// Snapshot returns a copy of the current stats.
func (c *StatsCache) Snapshot() models.UserXPStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

// Err reports the outcome of the most recent fetch.
func (c *StatsCache) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// StatsCacheRegistry hands out one cache per user so handlers share
// snapshots across requests. The guest cache is permanent.
type StatsCacheRegistry struct {
	gateway AwardGateway

	mu     sync.Mutex
	caches map[string]*StatsCache
}

func NewStatsCacheRegistry(gateway AwardGateway) *StatsCacheRegistry {
	return &StatsCacheRegistry{
		gateway: gateway,
		caches:  make(map[string]*StatsCache),
	}
}

func (r *StatsCacheRegistry) ForUser(userID string) *StatsCache {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.caches[userID]; ok {
		return c
	}
	c := NewStatsCache(r.gateway, userID)
	r.caches[userID] = c
	return c
}
