package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/tripmesh/backend/internal/models"
	"github.com/tripmesh/backend/internal/services"
)

// HealthHandler reports subsystem health.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// CheckHealth returns the health status of all subsystems.
// GET /health
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	overall := "healthy"

	// Database check
	dbStatus := "ok"
	sqlDB, err := models.GetDB().DB()
	if err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	}

	// Queue mode
	taskQueue := services.GetTaskQueue()
	queueMode := "sync"
	if taskQueue != nil && taskQueue.IsAsync() {
		queueMode = "async (Redis)"
	}

	// Groups still collecting submissions
	var joiningCount int64
	models.GetDB().Model(&models.Group{}).
		Where("status = ?", models.GroupStatusJoining).
		Count(&joiningCount)

	c.JSON(200, gin.H{
		"status":  overall,
		"service": "tripmesh",
		"components": gin.H{
			"database":       dbStatus,
			"queue_mode":     queueMode,
			"joining_groups": joiningCount,
		},
	})
}
