package models

import "time"

// Preference holds a member's trip preferences for one group. One row per
// (group, user); each save is a full overwrite. HotelRating nil means the
// member is flexible about hotel class.
type Preference struct {
	GroupID     uint      `gorm:"primaryKey;autoIncrement:false" json:"group_id"`
	UserID      uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	HotelBudget *int      `json:"hotel_budget"`
	HotelRating *int      `json:"hotel_rating"`
	TransferOK  bool      `json:"transfer_ok"`
	Places      string    `gorm:"size:1000" json:"places"` // comma-separated desired destinations
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Preference) TableName() string { return "preferences" }
