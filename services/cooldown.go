package services

import (
	"context"
	"log"
	"time"

	"civic-engagement-system/models"
	"civic-engagement-system/utils"
)

// ClaimWindow is the fixed cooldown between daily bonus claims.
const ClaimWindow = 24 * time.Hour

const claimKeyPrefix = "daily_xp_last_claimed_at_"

// ClaimState is the tracker's externally visible state.
type ClaimState string

const (
	ClaimAvailable ClaimState = "available"
	ClaimCooling   ClaimState = "cooling"
	ClaimDisabled  ClaimState = "disabled" // no authenticated user
)

// ClaimStatus is the full cooldown view served to widgets.
type ClaimStatus struct {
	State            ClaimState `json:"state"`
	SecondsRemaining int64      `json:"seconds_remaining"`
	ProgressPct      float64    `json:"progress_pct"`
	LastClaimedAt    *time.Time `json:"last_claimed_at,omitempty"`
}

// DailyClaimTracker guards the daily login bonus. The claim timestamp is
// written only after the gateway confirms a non-zero award; rejections and
// errors leave the stored state untouched.
type DailyClaimTracker struct {
	Store   utils.KVStore
	Gateway AwardGateway
	AwardXP int64

	// Now is injectable so tests can pin the clock.
	Now func() time.Time
}

func NewDailyClaimTracker(store utils.KVStore, gateway AwardGateway, awardXP int64) *DailyClaimTracker {
	return &DailyClaimTracker{
		Store:   store,
		Gateway: gateway,
		AwardXP: awardXP,
		Now:     time.Now,
	}
}

func (t *DailyClaimTracker) keyFor(userID string) string {
	if userID == "" {
		return claimKeyPrefix + "guest"
	}
	return claimKeyPrefix + userID
}

// lastClaimedAt reads the stored timestamp. A corrupt value is dropped and
// treated as never-claimed.
func (t *DailyClaimTracker) lastClaimedAt(userID string) *time.Time {
	raw, ok := t.Store.Get(t.keyFor(userID))
	if !ok {
		return nil
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		log.Printf("⚠️  [CLAIM] Corrupt claim timestamp for %s, resetting: %v", userID, err)
		_ = t.Store.Remove(t.keyFor(userID))
		return nil
	}
	return &ts
}

// Status computes the current state from the stored timestamp. The cooldown
// expires purely by time; no event is needed.
func (t *DailyClaimTracker) Status(userID string) ClaimStatus {
	if userID == "" {
		// Guests see the widget but can never claim.
		return ClaimStatus{State: ClaimDisabled, ProgressPct: 100}
	}

	last := t.lastClaimedAt(userID)
	if last == nil {
		return ClaimStatus{State: ClaimAvailable, ProgressPct: 100}
	}

	elapsed := t.Now().Sub(*last)
	remaining := ClaimWindow - elapsed
	if remaining <= 0 {
		return ClaimStatus{State: ClaimAvailable, ProgressPct: 100, LastClaimedAt: last}
	}

	if elapsed > ClaimWindow {
		elapsed = ClaimWindow
	}
	return ClaimStatus{
		State:            ClaimCooling,
		SecondsRemaining: int64(remaining.Seconds()),
		ProgressPct:      100 * elapsed.Seconds() / ClaimWindow.Seconds(),
		LastClaimedAt:    last,
	}
}

// Claim attempts the daily bonus. Confirm-then-update: the timestamp is
// stored only when the gateway reports XPEarned > 0. A local or remote
// cooldown rejection returns a zero result with nil error.
func (t *DailyClaimTracker) Claim(ctx context.Context, userID string) (*AwardResult, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}

	if t.Status(userID).State == ClaimCooling {
		return &AwardResult{XPEarned: 0, LevelUp: false}, nil
	}

	result, err := t.Gateway.AwardXP(ctx, userID, models.ActivityDailyLogin, t.AwardXP, map[string]any{
		"source": "daily_claim",
	})
	if err != nil {
		// State stays exactly as it was before the attempt.
		log.Printf("⚠️  [CLAIM] Award failed for %s: %v", userID, err)
		return nil, err
	}

	if result.XPEarned > 0 {
		if err := t.Store.Set(t.keyFor(userID), t.Now().Format(time.RFC3339)); err != nil {
			log.Printf("⚠️  [CLAIM] Failed to persist claim timestamp for %s: %v", userID, err)
		}
	}

	return result, nil
}
