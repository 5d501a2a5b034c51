package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"civic-engagement-system/models"
	"civic-engagement-system/utils"

	"github.com/stretchr/testify/require"
)

// stubGateway scripts award/stats responses without a database.
type stubGateway struct {
	result *AwardResult
	err    error

	awardCalls int
	lastUserID string
	lastType   string

	stats      *models.UserXPStats
	statsErr   error
	statsCalls int
}

func (g *stubGateway) AwardXP(ctx context.Context, userID, activityType string, amount int64, metadata map[string]any) (*AwardResult, error) {
	g.awardCalls++
	g.lastUserID = userID
	g.lastType = activityType
	if g.err != nil {
		return nil, g.err
	}
	return g.result, nil
}

func (g *stubGateway) GetUserStats(ctx context.Context, userID string) (*models.UserXPStats, error) {
	g.statsCalls++
	if g.statsErr != nil {
		return nil, g.statsErr
	}
	return g.stats, nil
}

func (g *stubGateway) GetLeaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	return nil, nil
}

func newTestTracker(gateway AwardGateway) (*DailyClaimTracker, *utils.MemoryKVStore, *time.Time) {
	store := utils.NewMemoryKVStore()
	tracker := NewDailyClaimTracker(store, gateway, 25)
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	tracker.Now = func() time.Time { return now }
	return tracker, store, &now
}

func TestDailyClaim_AvailableWhenNeverClaimed(t *testing.T) {
	tracker, _, _ := newTestTracker(&stubGateway{})

	status := tracker.Status("user1")
	require.Equal(t, ClaimAvailable, status.State)
	require.Zero(t, status.SecondsRemaining)
	require.InDelta(t, 100, status.ProgressPct, 0.001)
}

func TestDailyClaim_SuccessStartsCooldown(t *testing.T) {
	gateway := &stubGateway{result: &AwardResult{XPEarned: 25, LevelUp: false}}
	tracker, store, now := newTestTracker(gateway)

	result, err := tracker.Claim(context.Background(), "user1")
	require.NoError(t, err)
	require.EqualValues(t, 25, result.XPEarned)
	require.Equal(t, models.ActivityDailyLogin, gateway.lastType)

	stored, ok := store.Get("daily_xp_last_claimed_at_user1")
	require.True(t, ok)
	require.Equal(t, now.Format(time.RFC3339), stored)

	status := tracker.Status("user1")
	require.Equal(t, ClaimCooling, status.State)
	require.EqualValues(t, 86400, status.SecondsRemaining)
}

func TestDailyClaim_CooldownBoundary(t *testing.T) {
	tracker, store, now := newTestTracker(&stubGateway{})

	// Exactly 24h ago: the window has fully elapsed, claim allowed.
	require.NoError(t, store.Set("daily_xp_last_claimed_at_user1",
		now.Add(-86400*time.Second).Format(time.RFC3339)))
	status := tracker.Status("user1")
	require.Equal(t, ClaimAvailable, status.State)
	require.Zero(t, status.SecondsRemaining)

	// One second short: blocked with one second remaining.
	require.NoError(t, store.Set("daily_xp_last_claimed_at_user1",
		now.Add(-86399*time.Second).Format(time.RFC3339)))
	status = tracker.Status("user1")
	require.Equal(t, ClaimCooling, status.State)
	require.EqualValues(t, 1, status.SecondsRemaining)
	require.InDelta(t, 100*86399.0/86400.0, status.ProgressPct, 0.001)
}

// A second claim whose award comes back with xp_earned == 0 must not move
// the stored timestamp.
func TestDailyClaim_ZeroAwardLeavesStateUnchanged(t *testing.T) {
	gateway := &stubGateway{result: &AwardResult{XPEarned: 25}}
	tracker, store, now := newTestTracker(gateway)

	_, err := tracker.Claim(context.Background(), "user1")
	require.NoError(t, err)
	first, _ := store.Get("daily_xp_last_claimed_at_user1")

	// Window elapses locally, but the server still declines.
	*now = now.Add(25 * time.Hour)
	gateway.result = &AwardResult{XPEarned: 0}

	result, err := tracker.Claim(context.Background(), "user1")
	require.NoError(t, err)
	require.Zero(t, result.XPEarned)

	second, _ := store.Get("daily_xp_last_claimed_at_user1")
	require.Equal(t, first, second, "timestamp must not move on a zero award")
}

func TestDailyClaim_LocalCooldownSkipsGateway(t *testing.T) {
	gateway := &stubGateway{result: &AwardResult{XPEarned: 25}}
	tracker, _, _ := newTestTracker(gateway)

	_, err := tracker.Claim(context.Background(), "user1")
	require.NoError(t, err)
	require.Equal(t, 1, gateway.awardCalls)

	// Still cooling: the tracker does not even call the gateway.
	result, err := tracker.Claim(context.Background(), "user1")
	require.NoError(t, err)
	require.Zero(t, result.XPEarned)
	require.Equal(t, 1, gateway.awardCalls)
}

func TestDailyClaim_GatewayErrorLeavesStateUntouched(t *testing.T) {
	gateway := &stubGateway{err: errors.New("network down")}
	tracker, store, _ := newTestTracker(gateway)

	_, err := tracker.Claim(context.Background(), "user1")
	require.Error(t, err)

	_, ok := store.Get("daily_xp_last_claimed_at_user1")
	require.False(t, ok, "no timestamp may be written on failure")
	require.Equal(t, ClaimAvailable, tracker.Status("user1").State)
}

func TestDailyClaim_GuestDisabled(t *testing.T) {
	gateway := &stubGateway{result: &AwardResult{XPEarned: 25}}
	tracker, store, _ := newTestTracker(gateway)

	status := tracker.Status("")
	require.Equal(t, ClaimDisabled, status.State)

	_, err := tracker.Claim(context.Background(), "")
	require.ErrorIs(t, err, ErrAuthRequired)
	require.Zero(t, gateway.awardCalls)

	_, ok := store.Get("daily_xp_last_claimed_at_guest")
	require.False(t, ok, "guest claims must not write storage")
}

func TestDailyClaim_CorruptTimestampResets(t *testing.T) {
	tracker, store, _ := newTestTracker(&stubGateway{})

	require.NoError(t, store.Set("daily_xp_last_claimed_at_user1", "not-a-timestamp"))
	status := tracker.Status("user1")
	require.Equal(t, ClaimAvailable, status.State)

	_, ok := store.Get("daily_xp_last_claimed_at_user1")
	require.False(t, ok, "corrupt value is dropped")
}
