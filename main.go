package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"civic-engagement-system/handlers"
	"civic-engagement-system/middleware"
	"civic-engagement-system/models"
	"civic-engagement-system/services"
	"civic-engagement-system/utils"
	"civic-engagement-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024, // 20MB, enough for report photos
	})

	// 🔐 GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID, X-User-Roles, X-Service-Token",
		ExposeHeaders:    "Content-Length, Content-Type, Content-Disposition, X-Export-URL",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitStorage(); err != nil {
		log.Printf("⚠️  Object storage disabled: %v", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
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
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	xpService := services.NewXPService(db)
	badgeService := services.NewBadgeService(db)
	newsService := services.NewNewsService(db)
	eventService := services.NewEventService(db)
	reportService := services.NewReportService(db, xpService)
	exportService := services.NewExportService(db, xpService)
	notifier := services.NewNotifier(services.DefaultNotificationTTL)
	statsRegistry := services.NewStatsCacheRegistry(xpService)
	claimStore := utils.NewGormKVStore(db)
	claimTracker := services.NewDailyClaimTracker(claimStore, xpService, xpService.Awards.DailyLoginXP)

	if err := badgeService.SeedBadgeTypes(); err != nil {
		log.Fatal("failed to seed badge catalog:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conditionsClient := workers.NewConditionsClient(db)
	go workers.PollConditions(ctx, conditionsClient, 5*time.Minute)

	sched, err := services.StartScheduler(db, newsService, eventService)
	if err != nil {
		log.Fatal("failed to start scheduler:", err)
	}
	defer func() { _ = sched.Shutdown() }()

	handlers.SetupProgressionRoutes(app, xpService, claimTracker, statsRegistry, badgeService, exportService, notifier)
	handlers.SetupNewsRoutes(app, newsService, eventService)
	handlers.SetupReportRoutes(app, reportService, notifier)
	handlers.SetupConditionRoutes(app, db)

	go func() {
		if err := app.Listen(":5100"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5100")
	log.Println("✅ Conditions polling running (every 5m)")
	log.Println("✅ Publish scheduler running (every 1m)")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
