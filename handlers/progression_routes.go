// handlers/progression_routes.go
package handlers

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"civic-engagement-system/middleware"
	"civic-engagement-system/models"
	"civic-engagement-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressionRoutes(
	app *fiber.App,
	xpService *services.XPService,
	tracker *services.DailyClaimTracker,
	statsRegistry *services.StatsCacheRegistry,
	badgeService *services.BadgeService,
	exportService *services.ExportService,
	notifier *services.Notifier,
) {
	// Public: guest widgets read the demo dataset, no backend lookup.
	app.Get("/public/stats/demo", func(c *fiber.Ctx) error {
		return c.JSON(statsRegistry.ForUser("").Snapshot())
	})

	app.Get("/public/leaderboard", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "10"))
		entries, err := xpService.GetLeaderboard(c.Context(), limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch leaderboard",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"entries": entries})
	})

	securedGroup := app.Group("/s", middleware.UserContextMiddleware())

	securedGroup.Get("/user/stats", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		cache := statsRegistry.ForUser(userID)
		stale := false
		if err := cache.Fetch(c.Context()); err != nil {
			// Previous snapshot stays visible; surface only a flag.
			log.Printf("⚠️  Stats fetch failed for %s: %v", userID, err)
			stale = true
		}

		return c.JSON(fiber.Map{
			"stats": cache.Snapshot(),
			"stale": stale,
		})
	})

	securedGroup.Get("/user/claim-daily", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		return c.JSON(tracker.Status(userID))
	})

	securedGroup.Post("/user/claim-daily", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		result, err := tracker.Claim(c.Context(), userID)
		if err != nil {
			if errors.Is(err, services.ErrAuthRequired) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "authentication required to claim",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "claim failed",
				"cause": err.Error(),
			})
		}

		if result.XPEarned > 0 {
			notifier.Emit(userID, result.XPEarned, result.LevelUp)
		}

		return c.JSON(fiber.Map{
			"claimed":   result.XPEarned > 0,
			"xp_earned": result.XPEarned,
			"level_up":  result.LevelUp,
			"status":    tracker.Status(userID),
		})
	})

	securedGroup.Get("/user/badges", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		badges, err := badgeService.GetUserBadges(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get badges",
				"cause": err.Error(),
			})
		}
		return c.JSON(badges)
	})

	securedGroup.Get("/user/activity", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		limit, _ := strconv.Atoi(c.Query("limit", "20"))
		activity, err := xpService.GetUserActivity(c.Context(), userID, limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get activity",
				"cause": err.Error(),
			})
		}
		return c.JSON(activity)
	})

	securedGroup.Get("/leaderboard", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		limit, _ := strconv.Atoi(c.Query("limit", "10"))

		entries, err := xpService.GetLeaderboard(c.Context(), limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch leaderboard",
				"cause": err.Error(),
			})
		}

		stats, err := xpService.GetUserStats(c.Context(), userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch rank",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"entries":   entries,
			"your_rank": stats.RankPosition,
		})
	})

	securedGroup.Get("/user/export", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		payload, fileName, url, err := exportService.ExportAndStore(c.Context(), userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "export failed",
				"cause": err.Error(),
			})
		}

		c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
		if url != "" {
			c.Set("X-Export-URL", url)
		}
		c.Set("Content-Type", "application/json")
		return c.Send(payload)
	})

	securedGroup.Get("/notifications/stream", streamNotifications(notifier))

	// Admin endpoints
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireAdmin())

	adminGroup.Post("/xp/grant", func(c *fiber.Ctx) error {
		type Req struct {
			UserID       string         `json:"user_id"`
			ActivityType string         `json:"activity_type"`
			XP           int64          `json:"xp"`
			Metadata     map[string]any `json:"metadata"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if req.ActivityType == "" {
			req.ActivityType = models.ActivityAdminGrant
		}

		result, err := xpService.AwardXP(c.Context(), req.UserID, req.ActivityType, req.XP, req.Metadata)
		if err != nil {
			if errors.Is(err, services.ErrValidation) || errors.Is(err, services.ErrAuthRequired) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "XP award rejected",
					"cause": err.Error(),
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "XP award failed",
				"cause": err.Error(),
			})
		}

		if result.XPEarned > 0 {
			notifier.Emit(req.UserID, result.XPEarned, result.LevelUp)
		}

		return c.JSON(fiber.Map{
			"message":   "XP granted successfully",
			"user_id":   req.UserID,
			"xp_earned": result.XPEarned,
			"level_up":  result.LevelUp,
		})
	})
}

// streamNotifications pushes live XP notifications over SSE.
func streamNotifications(notifier *services.Notifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		c.Set("Content-Type", "text/event-stream")
		c.Set("Cache-Control", "no-cache")
		c.Set("Connection", "keep-alive")
		c.Set("X-Accel-Buffering", "no") // nginx

		events, cancel := notifier.Subscribe()

		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			defer cancel()

			keepalive := time.NewTicker(15 * time.Second)
			defer keepalive.Stop()

			// Initial keepalive (comment event)
			w.WriteString(":\n\n")
			if err := w.Flush(); err != nil {
				return
			}

			for {
				select {
				case note := <-events:
					if note.UserID != userID {
						continue
					}
					data, err := json.Marshal(note)
					if err != nil {
						continue
					}
					fmt.Fprintf(w, "event: xp\ndata: %s\n\n", data)
					if err := w.Flush(); err != nil {
						return
					}
				case <-keepalive.C:
					w.WriteString(":\n\n")
					if err := w.Flush(); err != nil {
						return
					}
				}
			}
		})

		return nil
	}
}
