// handlers/condition_routes.go
package handlers

import (
	"errors"

	"civic-engagement-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupConditionRoutes serves the beach/weather widget data. Always returns
// the newest mirrored snapshot per source; an empty table yields 404 so the
// client falls back to its defaults.
func SetupConditionRoutes(app *fiber.App, db *gorm.DB) {
	app.Get("/public/conditions", func(c *fiber.Ctx) error {
		result := fiber.Map{}
		for _, source := range []string{"beach", "weather"} {
			var snapshot models.ConditionSnapshot
			err := db.Where("source = ?", source).
				Order("fetched_at DESC").
				First(&snapshot).Error
			if err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
						"error": "DB error fetching conditions",
						"cause": err.Error(),
					})
				}
				continue
			}
			result[source] = snapshot
		}

		if len(result) == 0 {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No conditions available yet"})
		}
		return c.JSON(result)
	})
}
