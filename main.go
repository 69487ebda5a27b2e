package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"hms/config"
	"hms/jobs"
	"hms/models"
	"hms/routes"
	"hms/services"
	"hms/services/logger"
	"hms/services/notification"
	"hms/validator"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func migrateTables() {
	if err := config.DB.AutoMigrate(
		&models.Property{},
		&models.Room{},
		&models.Bed{},
		&models.Resident{},
		&models.SwitchRecord{},
	); err != nil {
		log.Fatalf("Failed to migrate tables: %v", err)
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: could not load .env file, falling back to existing environment: %v", err)
	}

	router, m, c, err := config.InitApp()
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	migrateTables()
	validator.RegisterCustomValidators()

	appLogger := logger.NewDefaultLogger(logger.InfoLevel)
	store := services.NewGormStore(config.DB)
	locks := services.NewRoomLocks()
	clock := services.NewRealClock()
	notifier := notification.NewMelodyService(m)
	cache := services.NewAvailabilityCache(config.RedisClient, 10*time.Minute)

	occupancyService := services.NewOccupancyService(services.OccupancyServiceOptions{
		Store:    store,
		Locks:    locks,
		Clock:    clock,
		Logger:   appLogger,
		Notifier: notifier,
		Cache:    cache,
	})
	roomService := services.NewRoomService(store, cache, appLogger)
	reconciler := services.NewNoticeReconciler(services.NoticeReconcilerOptions{
		Store:    store,
		Locks:    locks,
		Clock:    clock,
		Logger:   appLogger,
		Notifier: notifier,
		Cache:    cache,
	})
	vacationProcessor := services.NewVacationProcessor(services.VacationProcessorOptions{
		Store:    store,
		Locks:    locks,
		Clock:    clock,
		Logger:   appLogger,
		Notifier: notifier,
		Cache:    cache,
	})

	jobs.SetReservationReconciler(reconciler)
	jobs.SetVacationRunner(vacationProcessor)
	if err := jobs.InitCronJobs(c); err != nil {
		log.Fatalf("Failed to initialize cron jobs: %v", err)
	}

	config.InitWebSocket(router, m)

	routes.SetupRoutes(router, occupancyService, roomService, reconciler, vacationProcessor)

	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8083"
	}

	log.Println("Server starting on port " + port + "...")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
