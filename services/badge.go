package services

import (
	"log"

	"civic-engagement-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BadgeService struct {
	DB *gorm.DB
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{DB: db}
}

// SeedBadgeTypes inserts the predefined badge catalog (idempotent by code)
func (s *BadgeService) SeedBadgeTypes() error {
	for _, trigger := range models.BadgeTriggers {
		var count int64
		s.DB.Model(&models.BadgeType{}).Where("code = ?", trigger.Code).Count(&count)
		if count > 0 {
			continue
		}
		bt := trigger
		bt.ID = uuid.NewString()
		if err := s.DB.Create(&bt).Error; err != nil {
			return err
		}
	}
	return nil
}

// AutoAwardBadges checks all badge triggers for a user after a progress update
func (s *BadgeService) AutoAwardBadges(userID string) error {
	var prog models.UserProgress
	if err := s.DB.Where("user_id = ?", userID).First(&prog).Error; err != nil {
		return err
	}

	var types []models.BadgeType
	if err := s.DB.Find(&types).Error; err != nil {
		return err
	}

	awarded := 0
	for _, bt := range types {
		if !s.meetsThreshold(&prog, bt.Threshold) {
			continue
		}

		// Check if already awarded
		var count int64
		s.DB.Model(&models.UserBadge{}).
			Where("user_id = ? AND badge_type_id = ?", userID, bt.ID).
			Count(&count)
		if count > 0 {
			continue
		}

		userBadge := models.UserBadge{
			ID:          uuid.NewString(),
			UserID:      userID,
			BadgeTypeID: bt.ID,
		}
		if err := s.DB.Create(&userBadge).Error; err != nil {
			return err
		}
		awarded++
		log.Printf("🎖️ Badge awarded: %s → %s", bt.Name, userID)
	}

	if awarded > 0 {
		prog.BadgesCount += int64(awarded)
		if err := s.DB.Save(&prog).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetUserBadges returns awarded badges joined with their catalog entry
func (s *BadgeService) GetUserBadges(userID string) ([]map[string]any, error) {
	var userBadges []models.UserBadge
	if err := s.DB.Where("user_id = ?", userID).
		Order("awarded_at DESC").
		Find(&userBadges).Error; err != nil {
		return nil, err
	}

	response := make([]map[string]any, 0, len(userBadges))
	for _, ub := range userBadges {
		var bt models.BadgeType
		if err := s.DB.First(&bt, "id = ?", ub.BadgeTypeID).Error; err != nil {
			continue
		}
		response = append(response, map[string]any{
			"id":          ub.ID,
			"code":        bt.Code,
			"name":        bt.Name,
			"description": bt.Description,
			"icon_url":    bt.IconURL,
			"rarity":      bt.Rarity,
			"awarded_at":  ub.AwardedAt,
			"metadata":    ub.Metadata,
		})
	}
	return response, nil
}

func (s *BadgeService) meetsThreshold(prog *models.UserProgress, req map[string]int64) bool {
	for key, required := range req {
		switch key {
		case "total_reports":
			if prog.TotalReports < required {
				return false
			}
		case "total_claims":
			if prog.TotalClaims < required {
				return false
			}
		case "total_xp":
			if prog.TotalXP < required {
				return false
			}
		case "level":
			if int64(prog.CurrentLevel) < required {
				return false
			}
		case "event": // special: always true (e.g., first award)
			return true
		}
	}
	return true
}
