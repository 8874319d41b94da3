package services

import (
	"errors"
	"strings"
	"time"

	"github.com/tripmesh/backend/internal/models"
	"github.com/tripmesh/backend/pkg/response"
	"gorm.io/gorm"
)

type PreferenceService struct {
	db     *gorm.DB
	groups *GroupService
}

func NewPreferenceService(db *gorm.DB, groups *GroupService) *PreferenceService {
	return &PreferenceService{db: db, groups: groups}
}

type SetPreferenceRequest struct {
	HotelBudget *int   `json:"hotel_budget"`
	HotelRating string `json:"hotel_rating"` // "1".."5", or "flexible"/empty for no constraint
	TransferOK  bool   `json:"transfer_ok"`
	Places      string `json:"places"` // comma-separated destination wishes
}

// Set upserts the member's trip preference as a full overwrite. Members who
// have already locked in their submission cannot modify it.
func (s *PreferenceService) Set(groupID, userID uint, req *SetPreferenceRequest) (*models.Preference, error) {
	if _, err := s.groups.RequireMember(groupID, userID, true); err != nil {
		return nil, err
	}

	rating, err := parseHotelRating(req.HotelRating)
	if err != nil {
		return nil, err
	}

	var pref models.Preference
	err = s.db.Where("group_id = ? AND user_id = ?", groupID, userID).First(&pref).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		pref = models.Preference{GroupID: groupID, UserID: userID}
	}

	pref.HotelBudget = req.HotelBudget
	pref.HotelRating = rating
	pref.TransferOK = req.TransferOK
	pref.Places = strings.TrimSpace(req.Places)
	pref.UpdatedAt = time.Now()

	if err := s.db.Save(&pref).Error; err != nil {
		return nil, err
	}

	return &pref, nil
}

// GetMine returns the caller's preference row for the group.
func (s *PreferenceService) GetMine(groupID, userID uint) (*models.Preference, error) {
	if _, err := s.groups.RequireMember(groupID, userID, false); err != nil {
		return nil, err
	}

	var pref models.Preference
	if err := s.db.Where("group_id = ? AND user_id = ?", groupID, userID).First(&pref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("no preference submitted yet")
		}
		return nil, err
	}

	return &pref, nil
}

type MemberStatus struct {
	Role            string `json:"role"`
	HasPreference   bool   `json:"has_preference"`
	HasAvailability bool   `json:"has_availability"`
	IsLocked        bool   `json:"is_locked"`
}

// MyStatus summarizes what the caller has submitted to the group so far.
func (s *PreferenceService) MyStatus(groupID, userID uint) (*MemberStatus, error) {
	member, err := s.groups.RequireMember(groupID, userID, false)
	if err != nil {
		return nil, err
	}

	var prefCount, slotCount int64
	if err := s.db.Model(&models.Preference{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).Count(&prefCount).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.AvailabilitySlot{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).Count(&slotCount).Error; err != nil {
		return nil, err
	}

	return &MemberStatus{
		Role:            member.Role,
		HasPreference:   prefCount > 0,
		HasAvailability: slotCount > 0,
		IsLocked:        member.Submitted(),
	}, nil
}

// parseHotelRating maps the wire value to the stored constraint. Empty and
// "flexible" mean no constraint and are stored as nil.
func parseHotelRating(raw string) (*int, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" || v == "flexible" {
		return nil, nil
	}

	switch v {
	case "1", "2", "3", "4", "5":
		rating := int(v[0] - '0')
		return &rating, nil
	default:
		return nil, response.NewBadRequest("hotel_rating must be 1-5 or flexible")
	}
}
