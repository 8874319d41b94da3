package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/tripmesh/backend/internal/middleware"
	"github.com/tripmesh/backend/internal/services"
	"github.com/tripmesh/backend/pkg/response"
)

type AvailabilityHandler struct {
	availabilityService *services.AvailabilityService
}

func NewAvailabilityHandler(availabilityService *services.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availabilityService: availabilityService}
}

// Set replaces the caller's availability and locks the submission
// PUT /api/groups/:id/availability
func (h *AvailabilityHandler) Set(c *gin.Context) {
	groupID, ok := groupIDParam(c)
	if !ok {
		return
	}

	var req services.SetSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	slots, err := h.availabilityService.SetSlots(groupID, middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, slots)
}

// GetMine returns the caller's submitted slots
// GET /api/groups/:id/availability/mine
func (h *AvailabilityHandler) GetMine(c *gin.Context) {
	groupID, ok := groupIDParam(c)
	if !ok {
		return
	}

	slots, err := h.availabilityService.GetMySlots(groupID, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, slots)
}

// CommonRanges returns the group's qualifying time windows
// GET /api/groups/:id/common-ranges
func (h *AvailabilityHandler) CommonRanges(c *gin.Context) {
	groupID, ok := groupIDParam(c)
	if !ok {
		return
	}

	ranges, err := h.availabilityService.CommonRanges(groupID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, ranges)
}
