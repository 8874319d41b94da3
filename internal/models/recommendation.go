package models

import "time"

// Recommendation is one candidate trip: a qualifying date range paired with a
// destination and the travel-info provider's estimate. BatchID groups the rows
// produced by a single generation run.
type Recommendation struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	GroupID        uint      `gorm:"index;index:idx_rec_ranking,priority:1;not null" json:"group_id"`
	BatchID        string    `gorm:"size:36" json:"batch_id"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	Location       string    `gorm:"size:200" json:"location"`
	OutboundFlight string    `gorm:"size:500" json:"outbound_flight"`
	ReturnFlight   string    `gorm:"size:500" json:"return_flight"`
	Hotel          string    `gorm:"size:500" json:"hotel"`
	Price          float64   `json:"price"`
	Votes          int       `gorm:"default:0;index:idx_rec_ranking,priority:2" json:"votes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Recommendation) TableName() string { return "recommendations" }
