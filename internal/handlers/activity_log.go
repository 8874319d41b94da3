package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/tripmesh/backend/internal/services"
	"github.com/tripmesh/backend/pkg/response"
	"gorm.io/gorm"
)

type ActivityLogHandler struct {
	activityLogService *services.ActivityLogService
}

func NewActivityLogHandler(db *gorm.DB) *ActivityLogHandler {
	return &ActivityLogHandler{
		activityLogService: services.NewActivityLogService(db),
	}
}

// List returns paginated activity logs, newest first
// GET /api/activity-logs
func (h *ActivityLogHandler) List(c *gin.Context) {
	req := services.ActivityLogListRequest{Page: 1, PageSize: 20}
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.activityLogService.List(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, result)
}
