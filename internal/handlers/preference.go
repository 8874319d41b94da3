package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/tripmesh/backend/internal/middleware"
	"github.com/tripmesh/backend/internal/services"
	"github.com/tripmesh/backend/pkg/response"
)

type PreferenceHandler struct {
	preferenceService *services.PreferenceService
}

func NewPreferenceHandler(preferenceService *services.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{preferenceService: preferenceService}
}

// Set upserts the caller's trip preference
// PUT /api/groups/:id/preference
func (h *PreferenceHandler) Set(c *gin.Context) {
	groupID, ok := groupIDParam(c)
	if !ok {
		return
	}

	var req services.SetPreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	pref, err := h.preferenceService.Set(groupID, middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, pref)
}

// GetMine returns the caller's preference row
// GET /api/groups/:id/preference/mine
func (h *PreferenceHandler) GetMine(c *gin.Context) {
	groupID, ok := groupIDParam(c)
	if !ok {
		return
	}

	pref, err := h.preferenceService.GetMine(groupID, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, pref)
}

// MyStatus summarizes the caller's submissions for the group
// GET /api/groups/:id/me
func (h *PreferenceHandler) MyStatus(c *gin.Context) {
	groupID, ok := groupIDParam(c)
	if !ok {
		return
	}

	status, err := h.preferenceService.MyStatus(groupID, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, status)
}
