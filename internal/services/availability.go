package services

import (
	"errors"
	"sort"
	"time"

	"github.com/tripmesh/backend/internal/config"
	"github.com/tripmesh/backend/internal/models"
	"github.com/tripmesh/backend/pkg/response"
	"gorm.io/gorm"
)

const daySeconds = 24 * 60 * 60

type AvailabilityService struct {
	db       *gorm.DB
	groups   *GroupService
	holidays *HolidayService
	matching *config.MatchingConfig
}

func NewAvailabilityService(db *gorm.DB, groups *GroupService, holidays *HolidayService, matching *config.MatchingConfig) *AvailabilityService {
	return &AvailabilityService{db: db, groups: groups, holidays: holidays, matching: matching}
}

type SlotInput struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

type SetSlotsRequest struct {
	Slots []SlotInput `json:"slots" binding:"required,min=1,dive"`
}

// SetSlots replaces the member's availability for the group with the submitted
// set and stamps the member as submitted. Delete, insert and lock run in one
// transaction so a failure leaves the previous submission intact.
func (s *AvailabilityService) SetSlots(groupID, userID uint, req *SetSlotsRequest) ([]models.AvailabilitySlot, error) {
	member, err := s.groups.RequireMember(groupID, userID, true)
	if err != nil {
		return nil, err
	}

	slots := make([]models.AvailabilitySlot, 0, len(req.Slots))
	for _, in := range req.Slots {
		start, err := ParseDate(in.StartDate)
		if err != nil {
			return nil, response.NewBadRequest("invalid start_date, expected YYYY-MM-DD")
		}
		end, err := ParseDate(in.EndDate)
		if err != nil {
			return nil, response.NewBadRequest("invalid end_date, expected YYYY-MM-DD")
		}
		if end.Before(start) {
			return nil, response.NewBadRequest("slot end_date is before start_date")
		}
		slots = append(slots, models.AvailabilitySlot{
			GroupID:   groupID,
			UserID:    userID,
			StartDate: start,
			EndDate:   end,
		})
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ? AND user_id = ?", groupID, userID).
			Delete(&models.AvailabilitySlot{}).Error; err != nil {
			return err
		}
		if err := tx.Create(&slots).Error; err != nil {
			return err
		}
		return tx.Model(&models.GroupMember{}).
			Where("group_id = ? AND user_id = ?", member.GroupID, member.UserID).
			Update("submitted_at", now).Error
	})
	if err != nil {
		return nil, err
	}

	return slots, nil
}

// GetMySlots returns the caller's availability slots for the group.
func (s *AvailabilityService) GetMySlots(groupID, userID uint) ([]models.AvailabilitySlot, error) {
	if _, err := s.groups.RequireMember(groupID, userID, false); err != nil {
		return nil, err
	}

	var slots []models.AvailabilitySlot
	err := s.db.Where("group_id = ? AND user_id = ?", groupID, userID).
		Order("start_date ASC").Find(&slots).Error
	return slots, err
}

// CommonRange is a maximal contiguous run of days on which at least a quorum
// of members is available. MinAttendance is the weakest day in the run.
// DaysOff counts weekend days and public holidays for the group's country.
type CommonRange struct {
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Days          int       `json:"days"`
	MinAttendance int       `json:"min_attendance"`
	DaysOff       int       `json:"days_off"`
}

// CommonRanges recomputes the group's qualifying ranges from the current
// availability submissions. Nothing is persisted.
func (s *AvailabilityService) CommonRanges(groupID uint) ([]CommonRange, error) {
	var group models.Group
	if err := s.db.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []CommonRange{}, nil
		}
		return nil, err
	}

	var submitted int64
	if err := s.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND submitted_at IS NOT NULL", groupID).
		Count(&submitted).Error; err != nil {
		return nil, err
	}
	if submitted == 0 {
		return []CommonRange{}, nil
	}

	quorumBase := group.TargetCount
	if s.matching != nil && s.matching.QuorumBasis == config.QuorumBasisSubmitted {
		quorumBase = int(submitted)
	}

	var slots []models.AvailabilitySlot
	if err := s.db.Where("group_id = ?", groupID).Find(&slots).Error; err != nil {
		return nil, err
	}

	ranges := ComputeCommonRanges(slots, group.DateStart, group.DateEnd, QuorumThreshold(quorumBase), group.TravelDays)

	if s.holidays != nil {
		for i := range ranges {
			ranges[i].DaysOff = s.holidays.DaysOff(group.CountryCode, ranges[i].Start, ranges[i].End)
		}
	}

	return ranges, nil
}

// QuorumThreshold is the minimum attendance for a day to qualify: a strict
// majority of n.
func QuorumThreshold(n int) int {
	return n/2 + 1
}

// ComputeCommonRanges aggregates availability slots into a day-level attendance
// histogram and extracts the maximal contiguous runs that meet the threshold
// and the minimum length. Slots are clipped to the window first, and a member's
// overlapping slots count at most once per day.
func ComputeCommonRanges(slots []models.AvailabilitySlot, windowStart, windowEnd time.Time, threshold, travelDays int) []CommonRange {
	windowStart = truncateDay(windowStart)
	windowEnd = truncateDay(windowEnd)
	if windowEnd.Before(windowStart) {
		return []CommonRange{}
	}

	// Per-member day sets so overlapping slots do not double count.
	memberDays := make(map[uint]map[int64]struct{})
	for _, slot := range slots {
		start := truncateDay(slot.StartDate)
		end := truncateDay(slot.EndDate)
		if start.Before(windowStart) {
			start = windowStart
		}
		if end.After(windowEnd) {
			end = windowEnd
		}
		if end.Before(start) {
			continue
		}

		days := memberDays[slot.UserID]
		if days == nil {
			days = make(map[int64]struct{})
			memberDays[slot.UserID] = days
		}
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			days[d.Unix()] = struct{}{}
		}
	}

	attendance := make(map[int64]int)
	for _, days := range memberDays {
		for d := range days {
			attendance[d]++
		}
	}

	qualifying := make([]int64, 0, len(attendance))
	for d, count := range attendance {
		if count >= threshold {
			qualifying = append(qualifying, d)
		}
	}
	sort.Slice(qualifying, func(i, j int) bool { return qualifying[i] < qualifying[j] })

	ranges := []CommonRange{}
	for i := 0; i < len(qualifying); {
		j := i
		minAttendance := attendance[qualifying[i]]
		for j+1 < len(qualifying) && qualifying[j+1]-qualifying[j] == daySeconds {
			j++
			if attendance[qualifying[j]] < minAttendance {
				minAttendance = attendance[qualifying[j]]
			}
		}

		length := j - i + 1
		if length >= travelDays {
			ranges = append(ranges, CommonRange{
				Start:         time.Unix(qualifying[i], 0).UTC(),
				End:           time.Unix(qualifying[j], 0).UTC(),
				Days:          length,
				MinAttendance: minAttendance,
			})
		}
		i = j + 1
	}

	return ranges
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
