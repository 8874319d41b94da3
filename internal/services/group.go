package services

import (
	"errors"
	"strings"
	"time"

	"github.com/tripmesh/backend/internal/models"
	"github.com/tripmesh/backend/internal/utils"
	"github.com/tripmesh/backend/pkg/logger"
	"github.com/tripmesh/backend/pkg/response"
	"gorm.io/gorm"
)

// inviteCodeRetries bounds invite-code regeneration on unique-index conflicts.
const inviteCodeRetries = 5

type GroupService struct {
	db *gorm.DB
}

func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{db: db}
}

type CreateGroupRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	TargetCount int    `json:"target_count" binding:"required,min=2"`
	TravelDays  int    `json:"travel_days" binding:"required,min=1"`
	DateStart   string `json:"date_start" binding:"required"` // ISO calendar date
	DateEnd     string `json:"date_end" binding:"required"`
	CountryCode string `json:"country_code"`
}

// Create creates a group and its owner membership in one transaction.
// The invite code is regenerated on a unique-index conflict.
func (s *GroupService) Create(ownerID uint, req *CreateGroupRequest) (*models.Group, error) {
	dateStart, err := ParseDate(req.DateStart)
	if err != nil {
		return nil, response.NewBadRequest("invalid date_start, expected YYYY-MM-DD")
	}
	dateEnd, err := ParseDate(req.DateEnd)
	if err != nil {
		return nil, response.NewBadRequest("invalid date_end, expected YYYY-MM-DD")
	}
	if dateEnd.Before(dateStart) {
		return nil, response.NewBadRequest("date_end is before date_start")
	}

	country := strings.ToUpper(strings.TrimSpace(req.CountryCode))
	if country == "" {
		country = "NONE"
	}

	var group models.Group
	var lastErr error

	for attempt := 0; attempt < inviteCodeRetries; attempt++ {
		code, err := utils.GenerateInviteCode()
		if err != nil {
			return nil, err
		}

		group = models.Group{
			OwnerID:     ownerID,
			InviteCode:  code,
			Title:       req.Title,
			TargetCount: req.TargetCount,
			TravelDays:  req.TravelDays,
			DateStart:   dateStart,
			DateEnd:     dateEnd,
			CountryCode: country,
			Status:      models.GroupStatusJoining,
		}

		lastErr = s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&group).Error; err != nil {
				return err
			}
			member := models.GroupMember{
				GroupID:  group.ID,
				UserID:   ownerID,
				Role:     models.RoleOwner,
				JoinedAt: time.Now(),
			}
			return tx.Create(&member).Error
		})
		if lastErr == nil {
			logger.Info().Uint("group_id", group.ID).Str("invite_code", group.InviteCode).Msg("group created")
			return &group, nil
		}
		if !errors.Is(lastErr, gorm.ErrDuplicatedKey) {
			return nil, lastErr
		}
	}

	return nil, lastErr
}

// Join adds the user to the group behind the invite code. Joining a group the
// user already belongs to returns the existing membership unchanged.
func (s *GroupService) Join(userID uint, inviteCode string) (*models.Group, *models.GroupMember, error) {
	code := strings.ToUpper(strings.TrimSpace(inviteCode))

	var group models.Group
	if err := s.db.Where("invite_code = ?", code).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, response.NewNotFound("no group with this invite code")
		}
		return nil, nil, err
	}

	var member models.GroupMember
	err := s.db.Where("group_id = ? AND user_id = ?", group.ID, userID).First(&member).Error
	if err == nil {
		return &group, &member, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	member = models.GroupMember{
		GroupID:  group.ID,
		UserID:   userID,
		Role:     models.RoleMember,
		JoinedAt: time.Now(),
	}
	if err := s.db.Create(&member).Error; err != nil {
		return nil, nil, err
	}

	return &group, &member, nil
}

type GroupStatus struct {
	GroupID        uint   `json:"group_id"`
	Title          string `json:"title"`
	InviteCode     string `json:"invite_code"`
	TargetCount    int    `json:"target_count"`
	JoinedCount    int64  `json:"joined_count"`
	SubmittedCount int64  `json:"submitted_count"`
	TravelDays     int    `json:"travel_days"`
	Status         string `json:"status"`
}

// Status returns a summary of the group's joining/submission progress,
// or nil if the group does not exist.
func (s *GroupService) Status(groupID uint) (*GroupStatus, error) {
	var group models.Group
	if err := s.db.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var joined, submitted int64
	if err := s.db.Model(&models.GroupMember{}).Where("group_id = ?", groupID).Count(&joined).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND submitted_at IS NOT NULL", groupID).Count(&submitted).Error; err != nil {
		return nil, err
	}

	return &GroupStatus{
		GroupID:        group.ID,
		Title:          group.Title,
		InviteCode:     group.InviteCode,
		TargetCount:    group.TargetCount,
		JoinedCount:    joined,
		SubmittedCount: submitted,
		TravelDays:     group.TravelDays,
		Status:         group.Status,
	}, nil
}

// ListMine returns all groups the user belongs to, newest first.
func (s *GroupService) ListMine(userID uint) ([]models.Group, error) {
	var groups []models.Group
	err := s.db.
		Joins("JOIN group_members ON group_members.group_id = groups.id").
		Where("group_members.user_id = ?", userID).
		Order("groups.created_at DESC").
		Find(&groups).Error
	return groups, err
}

// RequireMember is the single lock-discipline guard shared by every mutating
// operation: it fails with NotFound when the caller has no membership row,
// and with Conflict when mustBeUnlocked is set and the member has already
// submitted. On success it returns the membership row so callers can stamp
// the submitted timestamp.
func (s *GroupService) RequireMember(groupID, userID uint, mustBeUnlocked bool) (*models.GroupMember, error) {
	var member models.GroupMember
	if err := s.db.Where("group_id = ? AND user_id = ?", groupID, userID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("group or membership not found")
		}
		return nil, err
	}

	if mustBeUnlocked && member.Submitted() {
		return nil, response.NewConflict("submission locked, cannot modify")
	}

	return &member, nil
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD) in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(s))
}
