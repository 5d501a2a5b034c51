package services

import (
	"context"
	"testing"

	"civic-engagement-system/models"

	"github.com/stretchr/testify/require"
)

func TestAwardXP_CreatesProgressAndLogsActivity(t *testing.T) {
	db := newTestDB(t)
	svc := NewXPService(db)
	ctx := context.Background()

	result, err := svc.AwardXP(ctx, "user1", models.ActivityReportSubmitted, 50, map[string]any{"report_id": "r1"})
	require.NoError(t, err)
	require.EqualValues(t, 50, result.XPEarned)
	require.False(t, result.LevelUp)

	var prog models.UserProgress
	require.NoError(t, db.Where("user_id = ?", "user1").First(&prog).Error)
	require.EqualValues(t, 50, prog.TotalXP)
	require.Equal(t, 1, prog.CurrentLevel)
	require.EqualValues(t, 1, prog.TotalReports)

	var activities []models.XPActivity
	require.NoError(t, db.Where("user_id = ?", "user1").Find(&activities).Error)
	require.Len(t, activities, 1)
	require.Equal(t, models.ActivityReportSubmitted, activities[0].ActivityType)
	require.Contains(t, activities[0].Metadata, "r1")
}

// A user at 240 XP receiving 25 crosses the 250 boundary into level 2.
func TestAwardXP_LevelUpAtBoundary(t *testing.T) {
	db := newTestDB(t)
	svc := NewXPService(db)
	ctx := context.Background()

	_, err := svc.AwardXP(ctx, "user1", models.ActivityEventCheckin, 240, nil)
	require.NoError(t, err)

	result, err := svc.AwardXP(ctx, "user1", models.ActivityEventCheckin, 25, nil)
	require.NoError(t, err)
	require.EqualValues(t, 25, result.XPEarned)
	require.True(t, result.LevelUp)

	var prog models.UserProgress
	require.NoError(t, db.Where("user_id = ?", "user1").First(&prog).Error)
	require.EqualValues(t, 265, prog.TotalXP)
	require.Equal(t, 2, prog.CurrentLevel)
	require.NotNil(t, prog.LastLevelUpAt)
}

// The server-side daily login rule silently awards 0 on a repeat call
// within 24h — a no-op, not an error.
func TestAwardXP_DailyLoginCooldown(t *testing.T) {
	db := newTestDB(t)
	svc := NewXPService(db)
	ctx := context.Background()

	first, err := svc.AwardXP(ctx, "user1", models.ActivityDailyLogin, 25, nil)
	require.NoError(t, err)
	require.EqualValues(t, 25, first.XPEarned)

	second, err := svc.AwardXP(ctx, "user1", models.ActivityDailyLogin, 25, nil)
	require.NoError(t, err)
	require.Zero(t, second.XPEarned)
	require.False(t, second.LevelUp)

	// Total XP and the award log reflect only the first claim.
	var prog models.UserProgress
	require.NoError(t, db.Where("user_id = ?", "user1").First(&prog).Error)
	require.EqualValues(t, 25, prog.TotalXP)
	require.EqualValues(t, 1, prog.TotalClaims)

	var count int64
	db.Model(&models.XPActivity{}).Where("user_id = ?", "user1").Count(&count)
	require.EqualValues(t, 1, count)
}

func TestAwardXP_Rejections(t *testing.T) {
	db := newTestDB(t)
	svc := NewXPService(db)
	ctx := context.Background()

	_, err := svc.AwardXP(ctx, "", models.ActivityDailyLogin, 25, nil)
	require.ErrorIs(t, err, ErrAuthRequired)

	_, err = svc.AwardXP(ctx, "user1", models.ActivityDailyLogin, -5, nil)
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.AwardXP(ctx, "user1", "", 25, nil)
	require.ErrorIs(t, err, ErrValidation)
}

func TestGetUserStats_DerivedFields(t *testing.T) {
	db := newTestDB(t)
	svc := NewXPService(db)
	ctx := context.Background()

	_, err := svc.AwardXP(ctx, "user1", models.ActivityEventCheckin, 1000, nil)
	require.NoError(t, err)

	stats, err := svc.GetUserStats(ctx, "user1")
	require.NoError(t, err)
	require.EqualValues(t, 1000, stats.TotalXP)
	require.Equal(t, 5, stats.CurrentLevel)
	require.Zero(t, stats.LevelProgress)
	require.EqualValues(t, 250, stats.XPToNext)
	require.EqualValues(t, 1, stats.RankPosition)
}

func TestGetUserStats_RankPosition(t *testing.T) {
	db := newTestDB(t)
	svc := NewXPService(db)
	ctx := context.Background()

	_, err := svc.AwardXP(ctx, "leader", models.ActivityEventCheckin, 900, nil)
	require.NoError(t, err)
	_, err = svc.AwardXP(ctx, "runner-up", models.ActivityEventCheckin, 500, nil)
	require.NoError(t, err)
	_, err = svc.AwardXP(ctx, "third", models.ActivityEventCheckin, 100, nil)
	require.NoError(t, err)

	stats, err := svc.GetUserStats(ctx, "runner-up")
	require.NoError(t, err)
	require.EqualValues(t, 2, stats.RankPosition)

	stats, err = svc.GetUserStats(ctx, "third")
	require.NoError(t, err)
	require.EqualValues(t, 3, stats.RankPosition)
}

func TestGetUserStats_UnknownUserStartsAtZero(t *testing.T) {
	db := newTestDB(t)
	svc := NewXPService(db)

	stats, err := svc.GetUserStats(context.Background(), "fresh")
	require.NoError(t, err)
	require.Zero(t, stats.TotalXP)
	require.Equal(t, 1, stats.CurrentLevel)

	_, err = svc.GetUserStats(context.Background(), "")
	require.ErrorIs(t, err, ErrAuthRequired)
}

func TestGetLeaderboard_OrderingAndRanks(t *testing.T) {
	db := newTestDB(t)
	svc := NewXPService(db)
	ctx := context.Background()

	for user, xp := range map[string]int64{"a": 300, "b": 700, "c": 100} {
		_, err := svc.AwardXP(ctx, user, models.ActivityEventCheckin, xp, nil)
		require.NoError(t, err)
	}

	entries, err := svc.GetLeaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	require.Equal(t, "b", entries[0].UserID)
	require.EqualValues(t, 1, entries[0].Rank)
	require.Equal(t, "a", entries[1].UserID)
	require.Equal(t, "c", entries[2].UserID)
	require.EqualValues(t, 3, entries[2].Rank)
}

func TestGetLeaderboard_LimitClamped(t *testing.T) {
	db := newTestDB(t)
	svc := NewXPService(db)
	ctx := context.Background()

	for _, user := range []string{"a", "b", "c"} {
		_, err := svc.AwardXP(ctx, user, models.ActivityEventCheckin, 10, nil)
		require.NoError(t, err)
	}

	entries, err := svc.GetLeaderboard(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	entries, err = svc.GetLeaderboard(ctx, -1)
	require.NoError(t, err)
	require.Len(t, entries, 3) // default limit applies
}

func TestAutoAwardBadges(t *testing.T) {
	db := newTestDB(t)
	svc := NewXPService(db)
	badgeSvc := NewBadgeService(db)
	require.NoError(t, badgeSvc.SeedBadgeTypes())
	ctx := context.Background()

	_, err := svc.AwardXP(ctx, "user1", models.ActivityReportSubmitted, 50, nil)
	require.NoError(t, err)

	badges, err := badgeSvc.GetUserBadges("user1")
	require.NoError(t, err)

	codes := make(map[string]bool)
	for _, b := range badges {
		codes[b["code"].(string)] = true
	}
	require.True(t, codes["WELCOME"], "welcome badge on first award")
	require.True(t, codes["FIRST_REPORT"], "first report badge")
	require.False(t, codes["LEVEL_5"], "level 5 not reached")

	// Re-running the triggers must not duplicate awards.
	require.NoError(t, badgeSvc.AutoAwardBadges("user1"))
	again, err := badgeSvc.GetUserBadges("user1")
	require.NoError(t, err)
	require.Len(t, again, len(badges))

	var prog models.UserProgress
	require.NoError(t, db.Where("user_id = ?", "user1").First(&prog).Error)
	require.EqualValues(t, len(badges), prog.BadgesCount)
}

func TestAutoAwardBadges_LevelThreshold(t *testing.T) {
	db := newTestDB(t)
	svc := NewXPService(db)
	badgeSvc := NewBadgeService(db)
	require.NoError(t, badgeSvc.SeedBadgeTypes())
	ctx := context.Background()

	// 1100 XP → level 5.
	_, err := svc.AwardXP(ctx, "user1", models.ActivityEventCheckin, 1100, nil)
	require.NoError(t, err)

	badges, err := badgeSvc.GetUserBadges("user1")
	require.NoError(t, err)

	found := false
	for _, b := range badges {
		if b["code"] == "LEVEL_5" {
			found = true
		}
	}
	require.True(t, found, "level 5 badge expected at 1100 XP")
}
