package main

import (
	"github.com/tripmesh/backend/internal/config"
	"github.com/tripmesh/backend/internal/handlers"
	"github.com/tripmesh/backend/internal/models"
	"github.com/tripmesh/backend/internal/services"
	"github.com/tripmesh/backend/internal/utils"
	"github.com/tripmesh/backend/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	taskQueue services.TaskQueue
	worker    *services.Worker

	authHandler           *handlers.AuthHandler
	groupHandler          *handlers.GroupHandler
	availabilityHandler   *handlers.AvailabilityHandler
	preferenceHandler     *handlers.PreferenceHandler
	recommendationHandler *handlers.RecommendationHandler
	activityLogHandler    *handlers.ActivityLogHandler
	countryHandler        *handlers.CountryHandler
	healthHandler         *handlers.HealthHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	// Initialize database
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate database
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	db := models.GetDB()

	// Initialize activity logger and its retention scheduler
	services.InitActivityLogger(db)
	services.StartCleanupScheduler(db, cfg.Logs.RetentionDays)

	// Core services
	groupService := services.NewGroupService(db)
	holidayService := services.NewHolidayService()
	availabilityService := services.NewAvailabilityService(db, groupService, holidayService, &cfg.Matching)
	preferenceService := services.NewPreferenceService(db, groupService)
	travelProvider := services.NewTravelProvider(&cfg.Travel)
	emailService := services.NewEmailService(db, &cfg.Email)

	// Task queue (uses Redis if enabled, otherwise sync mode)
	taskQueue := services.InitTaskQueue(cfg)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(emailService.ProcessNotifyTask)
	}

	// Start async worker if Redis is enabled
	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.InitWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(emailService.ProcessNotifyTask)
			worker.Start()
		}
	}

	recommendationService := services.NewRecommendationService(db, groupService, availabilityService, travelProvider, taskQueue)

	return &appServices{
		taskQueue:             taskQueue,
		worker:                worker,
		authHandler:           handlers.NewAuthHandler(db, cfg),
		groupHandler:          handlers.NewGroupHandler(db),
		availabilityHandler:   handlers.NewAvailabilityHandler(availabilityService),
		preferenceHandler:     handlers.NewPreferenceHandler(preferenceService),
		recommendationHandler: handlers.NewRecommendationHandler(recommendationService),
		activityLogHandler:    handlers.NewActivityLogHandler(db),
		countryHandler:        handlers.NewCountryHandler(holidayService),
		healthHandler:         handlers.NewHealthHandler(),
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	services.StopCleanupScheduler()
	logger.Info().Msg("All schedulers stopped")

	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
}
