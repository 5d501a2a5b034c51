package services

import (
	"context"
	"fmt"
	"log"

	"civic-engagement-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var cityReportCategories = map[string]bool{
	"roads":       true,
	"lighting":    true,
	"green_areas": true,
	"vandalism":   true,
	"other":       true,
}

var wasteTypes = map[string]bool{
	"bulky":     true,
	"hazardous": true,
	"organic":   true,
	"mixed":     true,
}

// ReportService handles citizen reports. A confirmed submission awards XP
// through the gateway; an award failure never fails the submission.
type ReportService struct {
	DB      *gorm.DB
	Gateway AwardGateway
	Awards  models.XPAwards
}

func NewReportService(db *gorm.DB, gateway AwardGateway) *ReportService {
	return &ReportService{DB: db, Gateway: gateway, Awards: models.DefaultXPAwards}
}

type CityReportInput struct {
	Category    string               `json:"category"`
	Urgency     models.ReportUrgency `json:"urgency"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Address     string               `json:"address"`
	Latitude    float64              `json:"latitude"`
	Longitude   float64              `json:"longitude"`
	PhotoURL    string               `json:"photo_url"`
}

func (in *CityReportInput) validate() error {
	if !cityReportCategories[in.Category] {
		return fmt.Errorf("%w: unknown report category %q", ErrValidation, in.Category)
	}
	if in.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if in.Description == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	if in.Address == "" {
		return fmt.Errorf("%w: address is required", ErrValidation)
	}
	switch in.Urgency {
	case models.UrgencyLow, models.UrgencyMedium, models.UrgencyHigh:
	case "":
		in.Urgency = models.UrgencyMedium
	default:
		return fmt.Errorf("%w: invalid urgency %q", ErrValidation, in.Urgency)
	}
	return nil
}

// SubmitCityReport validates, persists, then awards XP. The award result is
// returned alongside the report so the caller can emit a notification.
func (s *ReportService) SubmitCityReport(ctx context.Context, userID string, in CityReportInput) (*models.CityReport, *AwardResult, error) {
	if userID == "" {
		return nil, nil, ErrAuthRequired
	}
	if err := in.validate(); err != nil {
		return nil, nil, err
	}

	report := &models.CityReport{
		ID:          uuid.NewString(),
		UserID:      userID,
		Category:    in.Category,
		Urgency:     in.Urgency,
		Title:       in.Title,
		Description: in.Description,
		Address:     in.Address,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		PhotoURL:    in.PhotoURL,
		Status:      models.ReportStatusPending,
	}
	if err := s.DB.WithContext(ctx).Create(report).Error; err != nil {
		return nil, nil, err
	}

	award, err := s.Gateway.AwardXP(ctx, userID, models.ActivityReportSubmitted, s.Awards.ReportXP, map[string]any{
		"report_id": report.ID,
		"category":  report.Category,
	})
	if err != nil {
		// Report is saved; the award degrades to log-only.
		log.Printf("⚠️  [REPORT] XP award failed for %s: %v", userID, err)
		award = &AwardResult{}
	}

	return report, award, nil
}

type WasteReportInput struct {
	WasteType   string  `json:"waste_type"`
	Description string  `json:"description"`
	Address     string  `json:"address"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	PhotoURL    string  `json:"photo_url"`
}

func (in *WasteReportInput) validate() error {
	if !wasteTypes[in.WasteType] {
		return fmt.Errorf("%w: unknown waste type %q", ErrValidation, in.WasteType)
	}
	if in.Description == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	if in.Address == "" {
		return fmt.Errorf("%w: address is required", ErrValidation)
	}
	return nil
}

func (s *ReportService) SubmitWasteReport(ctx context.Context, userID string, in WasteReportInput) (*models.WasteReport, *AwardResult, error) {
	if userID == "" {
		return nil, nil, ErrAuthRequired
	}
	if err := in.validate(); err != nil {
		return nil, nil, err
	}

	report := &models.WasteReport{
		ID:          uuid.NewString(),
		UserID:      userID,
		WasteType:   in.WasteType,
		Description: in.Description,
		Address:     in.Address,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		PhotoURL:    in.PhotoURL,
		Status:      models.ReportStatusPending,
	}
	if err := s.DB.WithContext(ctx).Create(report).Error; err != nil {
		return nil, nil, err
	}

	award, err := s.Gateway.AwardXP(ctx, userID, models.ActivityReportSubmitted, s.Awards.ReportXP, map[string]any{
		"report_id":  report.ID,
		"waste_type": report.WasteType,
	})
	if err != nil {
		log.Printf("⚠️  [REPORT] XP award failed for %s: %v", userID, err)
		award = &AwardResult{}
	}

	return report, award, nil
}

// ListUserReports returns the caller's city reports, newest first.
func (s *ReportService) ListUserReports(userID string) ([]models.CityReport, error) {
	var reports []models.CityReport
	err := s.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&reports).Error
	return reports, err
}

// ListReports is the admin view, optionally filtered by status.
func (s *ReportService) ListReports(status models.ReportStatus) ([]models.CityReport, error) {
	query := s.DB.Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var reports []models.CityReport
	err := query.Find(&reports).Error
	return reports, err
}

// SetReportStatus transitions a report through the municipal workflow.
func (s *ReportService) SetReportStatus(id string, status models.ReportStatus) (*models.CityReport, error) {
	switch status {
	case models.ReportStatusPending, models.ReportStatusInProgress,
		models.ReportStatusResolved, models.ReportStatusRejected:
	default:
		return nil, fmt.Errorf("%w: invalid report status %q", ErrValidation, status)
	}

	var report models.CityReport
	if err := s.DB.First(&report, "id = ?", id).Error; err != nil {
		return nil, err
	}
	report.Status = status
	if err := s.DB.Save(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}
