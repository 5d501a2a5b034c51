package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"civic-engagement-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type NewsService struct {
	DB *gorm.DB
}

func NewNewsService(db *gorm.DB) *NewsService {
	return &NewsService{DB: db}
}

// NewsInput carries the editable fields of an article.
type NewsInput struct {
	Title     string               `json:"title"`
	Excerpt   string               `json:"excerpt"`
	Body      string               `json:"body"`
	Category  models.NewsCategory  `json:"category"`
	ImageURL  string               `json:"image_url"`
	Status    models.PublishStatus `json:"status"`
	PublishAt *time.Time           `json:"publish_at"`
}

func (in *NewsInput) validate() error {
	if in.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if in.Body == "" {
		return fmt.Errorf("%w: body is required", ErrValidation)
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
		in.Category = models.NewsCategoryGeneral
	}
	return nil
}

// uniqueSlug derives a URL slug from the title, suffixing on collision.
func (s *NewsService) uniqueSlug(title string) string {
	base := slug.Make(title)
	candidate := base
	for i := 0; ; i++ {
		var count int64
		s.DB.Model(&models.NewsItem{}).Unscoped().Where("slug = ?", candidate).Count(&count)
		if count == 0 {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%s", base, uuid.NewString()[:8])
		if i > 3 {
			return candidate
		}
	}
}

func (s *NewsService) Create(authorID string, in NewsInput) (*models.NewsItem, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	item := &models.NewsItem{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Slug:      s.uniqueSlug(in.Title),
		Excerpt:   in.Excerpt,
		Body:      in.Body,
		Category:  in.Category,
		ImageURL:  in.ImageURL,
		AuthorID:  authorID,
		Status:    in.Status,
		PublishAt: in.PublishAt,
	}
	if err := s.DB.Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (s *NewsService) Update(id string, in NewsInput) (*models.NewsItem, error) {
	var item models.NewsItem
	if err := s.DB.First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	if in.Title != item.Title {
		item.Slug = s.uniqueSlug(in.Title)
	}
	item.Title = in.Title
	item.Excerpt = in.Excerpt
	item.Body = in.Body
	item.Category = in.Category
	item.ImageURL = in.ImageURL
	item.Status = in.Status
	item.PublishAt = in.PublishAt

	if err := s.DB.Save(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *NewsService) SetStatus(id string, status models.PublishStatus) (*models.NewsItem, error) {
	switch status {
	case models.StatusDraft, models.StatusScheduled, models.StatusPublished, models.StatusArchived:
	default:
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, status)
	}

	var item models.NewsItem
	if err := s.DB.First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	item.Status = status
	if status == models.StatusPublished {
		item.PublishAt = nil
	}
	if err := s.DB.Save(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *NewsService) Delete(id string) error {
	var item models.NewsItem
	if err := s.DB.First(&item, "id = ?", id).Error; err != nil {
		return err
	}
	return s.DB.Delete(&item).Error
}

// ListPublished returns published articles, newest first.
func (s *NewsService) ListPublished(category string, limit int) ([]models.NewsItem, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	query := s.DB.Where("status = ?", models.StatusPublished)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	var items []models.NewsItem
	err := query.Order("created_at DESC").Limit(limit).Find(&items).Error
	return items, err
}

func (s *NewsService) BySlug(slugStr string) (*models.NewsItem, error) {
	var item models.NewsItem
	err := s.DB.Where("slug = ? AND status = ?", slugStr, models.StatusPublished).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListAll returns every article regardless of status (admin view).
func (s *NewsService) ListAll() ([]models.NewsItem, error) {
	var items []models.NewsItem
	err := s.DB.Order("created_at DESC").Find(&items).Error
	return items, err
}

// PublishDue flips scheduled articles whose publish time has passed. Called
// by the scheduler every minute; returns how many were published.
func (s *NewsService) PublishDue(now time.Time) int {
	var items []models.NewsItem
	err := s.DB.Where("status = ? AND publish_at <= ?", models.StatusScheduled, now).
		Find(&items).Error
	if err != nil {
		log.Printf("[Scheduler] DB error listing due news: %v", err)
		return 0
	}

	published := 0
	for _, item := range items {
		item.Status = models.StatusPublished
		item.PublishAt = nil
		if err := s.DB.Save(&item).Error; err != nil {
			log.Printf("[Scheduler] Failed to publish news %s: %v", item.ID, err)
		} else {
			published++
			log.Printf("✅ Auto-published news: %s", item.Title)
		}
	}
	return published
}

// IsNotFound reports whether err is the record-not-found case.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
