package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"civic-engagement-system/models"
	"civic-engagement-system/utils"

	"gorm.io/gorm"
)

// UserExport is the full data bundle a citizen can download.
type UserExport struct {
	GeneratedAt time.Time           `json:"generated_at"`
	Stats       *models.UserXPStats `json:"stats"`
	Activities  []models.XPActivity `json:"activities"`
	Badges      []map[string]any    `json:"badges"`
	Reports     []models.CityReport `json:"reports"`
}

type ExportService struct {
	DB      *gorm.DB
	Gateway AwardGateway
}

func NewExportService(db *gorm.DB, gateway AwardGateway) *ExportService {
	return &ExportService{DB: db, Gateway: gateway}
}

// ExportFileName follows the client convention:
// mycivitanova_data_<user_id>_<ISO date>.json
func ExportFileName(userID string, now time.Time) string {
	return fmt.Sprintf("mycivitanova_data_%s_%s.json", userID, now.Format("2006-01-02"))
}

// BuildUserExport gathers everything the system holds about a user.
func (s *ExportService) BuildUserExport(ctx context.Context, userID string) (*UserExport, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}

	stats, err := s.Gateway.GetUserStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	var activities []models.XPActivity
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&activities).Error; err != nil {
		return nil, err
	}

	badges, err := NewBadgeService(s.DB).GetUserBadges(userID)
	if err != nil {
		return nil, err
	}

	var reports []models.CityReport
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reports).Error; err != nil {
		return nil, err
	}

	return &UserExport{
		GeneratedAt: time.Now(),
		Stats:       stats,
		Activities:  activities,
		Badges:      badges,
		Reports:     reports,
	}, nil
}

// ExportAndStore serializes the bundle and uploads it to object storage.
// Returns the payload, file name and (if storage is configured) a URL.
func (s *ExportService) ExportAndStore(ctx context.Context, userID string) ([]byte, string, string, error) {
	export, err := s.BuildUserExport(ctx, userID)
	if err != nil {
		return nil, "", "", err
	}

	payload, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, "", "", err
	}

	fileName := ExportFileName(userID, export.GeneratedAt)

	url := ""
	if utils.StorageReady() {
		key := fmt.Sprintf("exports/%s", fileName)
		url, err = utils.UploadBytes(ctx, key, payload, "application/json")
		if err != nil {
			// The inline payload still serves the download.
			log.Printf("⚠️  [EXPORT] Upload failed for %s: %v", userID, err)
			url = ""
		}
	}

	return payload, fileName, url, nil
}
