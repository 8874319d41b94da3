package models

import "time"

// AvailabilitySlot is one contiguous date range a member reported as free.
// A member may have several rows per group; a new submission replaces all of
// the member's rows for that group.
type AvailabilitySlot struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GroupID   uint      `gorm:"index:idx_slot_group_user;not null" json:"group_id"`
	UserID    uint      `gorm:"index:idx_slot_group_user;not null" json:"user_id"`
	StartDate time.Time `gorm:"index" json:"start_date"`
	EndDate   time.Time `gorm:"index" json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
}

func (AvailabilitySlot) TableName() string { return "availability_slots" }
