package models

import (
	"time"

	"gorm.io/gorm"
)

// Group lifecycle status
const (
	GroupStatusJoining   = "joining"
	GroupStatusGenerated = "generated"
)

// Group member roles
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// Group is a travel group. TargetCount is the planned member count and the
// default quorum denominator for time-window matching. DateStart/DateEnd bound
// the candidate window; TravelDays is the minimum acceptable trip length.
type Group struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	OwnerID     uint           `gorm:"index;not null" json:"owner_id"`
	InviteCode  string         `gorm:"uniqueIndex;size:16;not null" json:"invite_code"`
	Title       string         `gorm:"size:200;not null" json:"title"`
	TargetCount int            `gorm:"not null" json:"target_count"`
	TravelDays  int            `gorm:"not null" json:"travel_days"`
	DateStart   time.Time      `json:"date_start"`
	DateEnd     time.Time      `json:"date_end"`
	CountryCode string         `gorm:"size:8;default:NONE" json:"country_code"` // holiday calendar for range annotation
	Status      string         `gorm:"size:20;default:joining" json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Group) TableName() string { return "groups" }

// GroupMember links a user to a group. A non-nil SubmittedAt means the member
// has locked in preferences and availability and can no longer modify them.
type GroupMember struct {
	GroupID     uint       `gorm:"primaryKey;autoIncrement:false" json:"group_id"`
	UserID      uint       `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	Role        string     `gorm:"size:20;not null;default:member" json:"role"`
	JoinedAt    time.Time  `json:"joined_at"`
	SubmittedAt *time.Time `json:"submitted_at"`
}

func (GroupMember) TableName() string { return "group_members" }

// Submitted reports whether the member has locked in their submission.
func (m *GroupMember) Submitted() bool {
	return m.SubmittedAt != nil
}
