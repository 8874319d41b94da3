package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/tripmesh/backend/internal/middleware"
	"github.com/tripmesh/backend/internal/services"
	"github.com/tripmesh/backend/pkg/response"
)

type RecommendationHandler struct {
	recommendationService *services.RecommendationService
}

func NewRecommendationHandler(recommendationService *services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recommendationService: recommendationService}
}

// Generate produces recommendation candidates for the group
// POST /api/groups/:id/recommendations/generate
func (h *RecommendationHandler) Generate(c *gin.Context) {
	groupID, ok := groupIDParam(c)
	if !ok {
		return
	}

	recs, err := h.recommendationService.Generate(c.Request.Context(), groupID, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, recs)
}

// List returns the group's recommendations, most voted first
// GET /api/groups/:id/recommendations
func (h *RecommendationHandler) List(c *gin.Context) {
	groupID, ok := groupIDParam(c)
	if !ok {
		return
	}

	recs, err := h.recommendationService.List(groupID, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, recs)
}

// Vote adds one vote to each listed recommendation
// POST /api/groups/:id/votes
func (h *RecommendationHandler) Vote(c *gin.Context) {
	groupID, ok := groupIDParam(c)
	if !ok {
		return
	}

	var req services.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.recommendationService.Vote(groupID, middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"votes": result})
}
