// handlers/report_routes.go
package handlers

import (
	"errors"
	"fmt"
	"log"

	"civic-engagement-system/middleware"
	"civic-engagement-system/models"
	"civic-engagement-system/services"
	"civic-engagement-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func SetupReportRoutes(app *fiber.App, reportService *services.ReportService, notifier *services.Notifier) {
	securedGroup := app.Group("/s", middleware.UserContextMiddleware())

	securedGroup.Post("/reports", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var in services.CityReportInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		// Optional photo upload
		if fileHeader, err := c.FormFile("photo"); err == nil && utils.StorageReady() {
			key := fmt.Sprintf("reports/%s_%s", uuid.NewString()[:8], fileHeader.Filename)
			url, err := utils.UploadFile(c.Context(), fileHeader, key)
			if err != nil {
				log.Printf("⚠️  [REPORT] Photo upload failed: %v", err)
			} else {
				in.PhotoURL = url
			}
		}

		report, award, err := reportService.SubmitCityReport(c.Context(), userID, in)
		if err != nil {
			if errors.Is(err, services.ErrValidation) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			}
			if errors.Is(err, services.ErrAuthRequired) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to submit report",
				"cause": err.Error(),
			})
		}

		if award.XPEarned > 0 {
			notifier.Emit(userID, award.XPEarned, award.LevelUp)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"report":    report,
			"xp_earned": award.XPEarned,
			"level_up":  award.LevelUp,
		})
	})

	securedGroup.Post("/reports/waste", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var in services.WasteReportInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		report, award, err := reportService.SubmitWasteReport(c.Context(), userID, in)
		if err != nil {
			if errors.Is(err, services.ErrValidation) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			}
			if errors.Is(err, services.ErrAuthRequired) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to submit report",
				"cause": err.Error(),
			})
		}

		if award.XPEarned > 0 {
			notifier.Emit(userID, award.XPEarned, award.LevelUp)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"report":    report,
			"xp_earned": award.XPEarned,
			"level_up":  award.LevelUp,
		})
	})

	securedGroup.Get("/reports/mine", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		reports, err := reportService.ListUserReports(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch reports"})
		}
		return c.JSON(reports)
	})

	// Admin workflow
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireAdmin())

	adminGroup.Get("/reports", func(c *fiber.Ctx) error {
		status := models.ReportStatus(c.Query("status"))
		reports, err := reportService.ListReports(status)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch reports"})
		}
		return c.JSON(reports)
	})

	adminGroup.Patch("/reports/:id/status", func(c *fiber.Ctx) error {
		var req struct {
			Status models.ReportStatus `json:"status"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		report, err := reportService.SetReportStatus(c.Params("id"), req.Status)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Report not found"})
			}
			if errors.Is(err, services.ErrValidation) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update status"})
		}
		return c.JSON(fiber.Map{"message": "Report status updated successfully", "report": report})
	})
}
