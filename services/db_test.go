package services

import (
	"fmt"
	"testing"

	"civic-engagement-system/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// One shared in-memory database per test, isolated by name.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.UserProgress{},
		&models.XPActivity{},
		&models.BadgeType{},
		&models.UserBadge{},
		&models.NewsItem{},
		&models.Event{},
		&models.CityReport{},
		&models.WasteReport{},
		&models.ConditionSnapshot{},
		&models.KVEntry{},
	))
	return db
}
