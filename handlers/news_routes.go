// handlers/news_routes.go
package handlers

import (
	"errors"

	"civic-engagement-system/middleware"
	"civic-engagement-system/models"
	"civic-engagement-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupNewsRoutes(app *fiber.App, newsService *services.NewsService, eventService *services.EventService) {
	// Public: published content only
	app.Get("/public/news", func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 20)
		items, err := newsService.ListPublished(c.Query("category"), limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch news",
				"cause": err.Error(),
			})
		}
		return c.JSON(items)
	})

	app.Get("/public/news/:slug", func(c *fiber.Ctx) error {
		item, err := newsService.BySlug(c.Params("slug"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "News not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		return c.JSON(item)
	})

	app.Get("/public/events", func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 20)
		events, err := eventService.ListUpcoming(limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch events",
				"cause": err.Error(),
			})
		}
		return c.JSON(events)
	})

	// Admin CRUD
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireAdmin())

	adminGroup.Get("/news", func(c *fiber.Ctx) error {
		items, err := newsService.ListAll()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch news"})
		}
		return c.JSON(items)
	})

	adminGroup.Post("/news", func(c *fiber.Ctx) error {
		var in services.NewsInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		authorID := c.Locals("user_id").(string)
		item, err := newsService.Create(authorID, in)
		if err != nil {
			if errors.Is(err, services.ErrValidation) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create news"})
		}
		return c.Status(fiber.StatusCreated).JSON(item)
	})

	adminGroup.Put("/news/:id", func(c *fiber.Ctx) error {
		var in services.NewsInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		item, err := newsService.Update(c.Params("id"), in)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "News not found"})
			}
			if errors.Is(err, services.ErrValidation) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update news"})
		}
		return c.JSON(item)
	})

	adminGroup.Patch("/news/:id/status", func(c *fiber.Ctx) error {
		var req struct {
			Status models.PublishStatus `json:"status"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		item, err := newsService.SetStatus(c.Params("id"), req.Status)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "News not found"})
			}
			if errors.Is(err, services.ErrValidation) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update status"})
		}
		return c.JSON(fiber.Map{"message": "Status updated successfully", "news": item})
	})

	adminGroup.Delete("/news/:id", func(c *fiber.Ctx) error {
		if err := newsService.Delete(c.Params("id")); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "News not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete news"})
		}
		return c.JSON(fiber.Map{"message": "News deleted successfully"})
	})

	adminGroup.Get("/events", func(c *fiber.Ctx) error {
		events, err := eventService.ListAll()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch events"})
		}
		return c.JSON(events)
	})

	adminGroup.Post("/events", func(c *fiber.Ctx) error {
		var in services.EventInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		event, err := eventService.Create(in)
		if err != nil {
			if errors.Is(err, services.ErrValidation) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create event"})
		}
		return c.Status(fiber.StatusCreated).JSON(event)
	})

	adminGroup.Put("/events/:id", func(c *fiber.Ctx) error {
		var in services.EventInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		event, err := eventService.Update(c.Params("id"), in)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Event not found"})
			}
			if errors.Is(err, services.ErrValidation) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update event"})
		}
		return c.JSON(event)
	})

	adminGroup.Delete("/events/:id", func(c *fiber.Ctx) error {
		if err := eventService.Delete(c.Params("id")); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Event not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete event"})
		}
		return c.JSON(fiber.Map{"message": "Event deleted successfully"})
	})
}
