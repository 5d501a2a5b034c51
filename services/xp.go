package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"civic-engagement-system/models"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// AwardResult is the authoritative outcome of an XP award. XPEarned == 0
// means the server declined the award (cooldown) — a no-op, not an error.
type AwardResult struct {
	XPEarned int64 `json:"xp_earned"`
	LevelUp  bool  `json:"level_up"`
}

// AwardGateway is the boundary through which trackers, caches and handlers
// request awards and read authoritative stats.
type AwardGateway interface {
	AwardXP(ctx context.Context, userID, activityType string, amount int64, metadata map[string]any) (*AwardResult, error)
	GetUserStats(ctx context.Context, userID string) (*models.UserXPStats, error)
	GetLeaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

type XPService struct {
	DB     *gorm.DB
	Awards models.XPAwards
}

func NewXPService(db *gorm.DB) *XPService {
	return &XPService{DB: db, Awards: models.DefaultXPAwards}
}

// EnsureProgressRecord ensures a UserProgress row exists (idempotent)
func (s *XPService) EnsureProgressRecord(userID string) (*models.UserProgress, error) {
	var prog models.UserProgress
	err := s.DB.Where("user_id = ?", userID).First(&prog).Error
	if err == gorm.ErrRecordNotFound {
		prog = models.UserProgress{
			ID:           uuid.NewString(),
			UserID:       userID,
			TotalXP:      0,
			CurrentLevel: 1,
		}
		if err := s.DB.Create(&prog).Error; err != nil {
			return nil, err
		}
		return &prog, nil
	}
	if err != nil {
		return nil, err
	}
	return &prog, nil
}

// AwardXP atomically logs the activity and updates XP and level.
// This is the add_xp_simple procedure: the daily_login cooldown is enforced
// here, server-side, by returning a zero award instead of an error.
func (s *XPService) AwardXP(ctx context.Context, userID, activityType string, amount int64, metadata map[string]any) (*AwardResult, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}
	if amount < 0 {
		return nil, fmt.Errorf("%w: negative XP amount", ErrValidation)
	}
	if activityType == "" {
		return nil, fmt.Errorf("%w: activity type is required", ErrValidation)
	}

	var result *AwardResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prog, err := s.ensureProgressTx(tx, userID)
		if err != nil {
			return err
		}

		// Daily login may only pay out once per 24h window.
		if activityType == models.ActivityDailyLogin {
			var last models.XPActivity
			err := tx.Where("user_id = ? AND activity_type = ?", userID, models.ActivityDailyLogin).
				Order("created_at DESC").
				First(&last).Error
			if err == nil && time.Since(last.CreatedAt) < 24*time.Hour {
				result = &AwardResult{XPEarned: 0, LevelUp: false}
				return nil
			}
			if err != nil && err != gorm.ErrRecordNotFound {
				return err
			}
		}

		metaJSON := "{}"
		if len(metadata) > 0 {
			raw, err := json.Marshal(metadata)
			if err != nil {
				return fmt.Errorf("%w: metadata not serializable", ErrValidation)
			}
			metaJSON = string(raw)
		}

		activity := models.XPActivity{
			ID:           uuid.NewString(),
			UserID:       userID,
			ActivityType: activityType,
			XPAmount:     amount,
			Metadata:     metaJSON,
		}
		if err := tx.Create(&activity).Error; err != nil {
			return err
		}

		oldLevel := prog.CurrentLevel
		prog.TotalXP += amount
		newLevel, err := LevelForXP(prog.TotalXP)
		if err != nil {
			return err
		}

		levelUp := newLevel > oldLevel
		prog.CurrentLevel = newLevel
		if levelUp {
			now := time.Now()
			prog.LastLevelUpAt = &now
		}

		switch activityType {
		case models.ActivityDailyLogin:
			prog.TotalClaims++
		case models.ActivityReportSubmitted:
			prog.TotalReports++
		}

		if err := tx.Save(prog).Error; err != nil {
			return err
		}

		result = &AwardResult{XPEarned: amount, LevelUp: levelUp}

		log.Printf("🏅 XP Awarded: %s → +%d (%s), XP=%d, Lvl=%d",
			userID, amount, activityType, prog.TotalXP, prog.CurrentLevel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Auto-award badges outside the award transaction (fire-and-forget)
	if result.XPEarned > 0 {
		badgeSvc := NewBadgeService(s.DB)
		_ = badgeSvc.AutoAwardBadges(userID)
	}

	return result, nil
}

func (s *XPService) ensureProgressTx(tx *gorm.DB, userID string) (*models.UserProgress, error) {
	var prog models.UserProgress
	err := tx.Where("user_id = ?", userID).First(&prog).Error
	if err == gorm.ErrRecordNotFound {
		prog = models.UserProgress{
			ID:           uuid.NewString(),
			UserID:       userID,
			TotalXP:      0,
			CurrentLevel: 1,
		}
		if err := tx.Create(&prog).Error; err != nil {
			return nil, err
		}
		return &prog, nil
	}
	if err != nil {
		return nil, err
	}
	return &prog, nil
}

// GetUserStats builds the full stats snapshot: XP, derived level/progress,
// rank position and badge count.
func (s *XPService) GetUserStats(ctx context.Context, userID string) (*models.UserXPStats, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}

	prog, err := s.EnsureProgressRecord(userID)
	if err != nil {
		return nil, err
	}

	breakdown, err := BreakdownForXP(prog.TotalXP)
	if err != nil {
		return nil, err
	}

	var ahead int64
	if err := s.DB.WithContext(ctx).Model(&models.UserProgress{}).
		Where("total_xp > ?", prog.TotalXP).
		Count(&ahead).Error; err != nil {
		return nil, err
	}

	var badges int64
	if err := s.DB.WithContext(ctx).Model(&models.UserBadge{}).
		Where("user_id = ?", userID).
		Count(&badges).Error; err != nil {
		return nil, err
	}

	return &models.UserXPStats{
		UserID:        userID,
		TotalXP:       prog.TotalXP,
		CurrentLevel:  breakdown.Level,
		LevelProgress: breakdown.ProgressPct,
		XPToNext:      breakdown.XPToNext,
		RankPosition:  ahead + 1,
		BadgesCount:   badges,
	}, nil
}

var displayCaser = cases.Title(language.Italian)

// GetLeaderboard returns the top citizens ordered by total XP.
func (s *XPService) GetLeaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var rows []models.UserProgress
	if err := s.DB.WithContext(ctx).
		Order("total_xp DESC, created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		name := row.DisplayName
		if name == "" {
			name = "Cittadino"
		}
		entries = append(entries, models.LeaderboardEntry{
			Rank:         int64(i + 1),
			UserID:       row.UserID,
			DisplayName:  displayCaser.String(name),
			TotalXP:      row.TotalXP,
			CurrentLevel: row.CurrentLevel,
			BadgesCount:  row.BadgesCount,
		})
	}
	return entries, nil
}

// GetUserActivity returns the most recent award log rows for a user.
func (s *XPService) GetUserActivity(ctx context.Context, userID string, limit int) ([]models.XPActivity, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	var rows []models.XPActivity
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
