// services/scheduler.go
package services

import (
	"log"
	"time"

	"civic-engagement-system/models"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// conditionRetention is how long beach/weather snapshots are kept.
const conditionRetention = 48 * time.Hour

// StartScheduler wires the recurring jobs: scheduled publishing every
// minute, snapshot pruning hourly.
func StartScheduler(db *gorm.DB, news *NewsService, events *EventService) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	sched.Start()

	_, err = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			now := time.Now()
			news.PublishDue(now)
			events.PublishDue(now)
		}),
	)
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			cutoff := time.Now().Add(-conditionRetention)
			result := db.Where("fetched_at < ?", cutoff).Delete(&models.ConditionSnapshot{})
			if result.Error != nil {
				log.Printf("[Scheduler] Snapshot prune failed: %v", result.Error)
			} else if result.RowsAffected > 0 {
				log.Printf("🧹 Pruned %d stale condition snapshots", result.RowsAffected)
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	return sched, nil
}
