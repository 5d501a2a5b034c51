package services

import (
	"fmt"
	"log"
	"time"

	"civic-engagement-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type EventService struct {
	DB *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{DB: db}
}

type EventInput struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Location    string               `json:"location"`
	Category    string               `json:"category"`
	ImageURL    string               `json:"image_url"`
	StartsAt    time.Time            `json:"starts_at"`
	EndsAt      *time.Time           `json:"ends_at"`
	Status      models.PublishStatus `json:"status"`
	PublishAt   *time.Time           `json:"publish_at"`
}

func (in *EventInput) validate() error {
	if in.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if in.StartsAt.IsZero() {
		return fmt.Errorf("%w: starts_at is required", ErrValidation)
	}
	if in.EndsAt != nil && in.EndsAt.Before(in.StartsAt) {
		return fmt.Errorf("%w: ends_at precedes starts_at", ErrValidation)
	}
	switch in.Status {
	case models.StatusDraft, models.StatusScheduled, models.StatusPublished, models.StatusArchived:
	case "":
		in.Status = models.StatusDraft
	default:
		return fmt.Errorf("%w: invalid status %q", ErrValidation, in.Status)
	}
	if in.Status == models.StatusScheduled && in.PublishAt == nil {
		return fmt.Errorf("%w: publish_at is required for scheduled items", ErrValidation)
	}
	if in.Category == "" {
		in.Category = "general"
	}
	return nil
}

func (s *EventService) uniqueSlug(title string) string {
	base := slug.Make(title)
	var count int64
	s.DB.Model(&models.Event{}).Unscoped().Where("slug = ?", base).Count(&count)
	if count == 0 {
		return base
	}
	return fmt.Sprintf("%s-%s", base, uuid.NewString()[:8])
}

func (s *EventService) Create(in EventInput) (*models.Event, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	event := &models.Event{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Slug:        s.uniqueSlug(in.Title),
		Description: in.Description,
		Location:    in.Location,
		Category:    in.Category,
		ImageURL:    in.ImageURL,
		StartsAt:    in.StartsAt,
		EndsAt:      in.EndsAt,
		Status:      in.Status,
		PublishAt:   in.PublishAt,
	}
	if err := s.DB.Create(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) Update(id string, in EventInput) (*models.Event, error) {
	var event models.Event
	if err := s.DB.First(&event, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	if in.Title != event.Title {
		event.Slug = s.uniqueSlug(in.Title)
	}
	event.Title = in.Title
	event.Description = in.Description
	event.Location = in.Location
	event.Category = in.Category
	event.ImageURL = in.ImageURL
	event.StartsAt = in.StartsAt
	event.EndsAt = in.EndsAt
	event.Status = in.Status
	event.PublishAt = in.PublishAt

	if err := s.DB.Save(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *EventService) Delete(id string) error {
	var event models.Event
	if err := s.DB.First(&event, "id = ?", id).Error; err != nil {
		return err
	}
	return s.DB.Delete(&event).Error
}

// ListUpcoming returns published events that have not ended yet.
func (s *EventService) ListUpcoming(limit int) ([]models.Event, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	now := time.Now()
	var events []models.Event
	err := s.DB.Where("status = ?", models.StatusPublished).
		Where("starts_at >= ? OR (ends_at IS NOT NULL AND ends_at >= ?)", now, now).
		Order("starts_at ASC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

func (s *EventService) ListAll() ([]models.Event, error) {
	var events []models.Event
	err := s.DB.Order("starts_at DESC").Find(&events).Error
	return events, err
}

// PublishDue mirrors NewsService.PublishDue for events.
func (s *EventService) PublishDue(now time.Time) int {
	var events []models.Event
	err := s.DB.Where("status = ? AND publish_at <= ?", models.StatusScheduled, now).
		Find(&events).Error
	if err != nil {
		log.Printf("[Scheduler] DB error listing due events: %v", err)
		return 0
	}

	published := 0
	for _, event := range events {
		event.Status = models.StatusPublished
		event.PublishAt = nil
		if err := s.DB.Save(&event).Error; err != nil {
			log.Printf("[Scheduler] Failed to publish event %s: %v", event.ID, err)
		} else {
			published++
			log.Printf("✅ Auto-published event: %s", event.Title)
		}
	}
	return published
}
