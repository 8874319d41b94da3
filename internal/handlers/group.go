package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tripmesh/backend/internal/middleware"
	"github.com/tripmesh/backend/internal/services"
	"github.com/tripmesh/backend/pkg/response"
	"gorm.io/gorm"
)

type GroupHandler struct {
	groupService *services.GroupService
}

func NewGroupHandler(db *gorm.DB) *GroupHandler {
	return &GroupHandler{
		groupService: services.NewGroupService(db),
	}
}

// groupIDParam parses the :id path segment.
func groupIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid group id")
		return 0, false
	}
	return uint(id), true
}

// Create creates a group with the caller as owner
// POST /api/groups
func (h *GroupHandler) Create(c *gin.Context) {
	var req services.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	group, err := h.groupService.Create(middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, group)
}

type joinRequest struct {
	InviteCode string `json:"invite_code" binding:"required"`
}

// Join adds the caller to the group behind an invite code
// POST /api/groups/join
func (h *GroupHandler) Join(c *gin.Context) {
	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	group, member, err := h.groupService.Join(middleware.GetUserID(c), req.InviteCode)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{
		"group":  group,
		"member": member,
	})
}

// Status returns joining/submission progress for a group
// GET /api/groups/:id/status
func (h *GroupHandler) Status(c *gin.Context) {
	groupID, ok := groupIDParam(c)
	if !ok {
		return
	}

	status, err := h.groupService.Status(groupID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if status == nil {
		response.NotFound(c, "group not found")
		return
	}

	response.Success(c, status)
}

// ListMine returns the caller's groups
// GET /api/groups/mine
func (h *GroupHandler) ListMine(c *gin.Context) {
	groups, err := h.groupService.ListMine(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, groups)
}
