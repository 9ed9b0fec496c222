package models

import (
	"time"

	"gorm.io/datatypes"
)

// PlayerRecord is the persisted form of one reconciled player row. The full
// merged feature map goes into the JSON column; the columns queried by the
// API are promoted to real fields.
type PlayerRecord struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	BuildID       string         `gorm:"index;not null" json:"build_id"`
	Name          string         `gorm:"index;not null" json:"name"`
	PositionGroup string         `json:"position_group"`
	AllStarApps   int            `json:"allstar_apps"`
	HighestWS     float64        `json:"highest_ws"`
	HighestBPM    float64        `json:"highest_bpm"`
	OverallPIE    string         `json:"overall_pie"`
	Features      datatypes.JSON `json:"features"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (PlayerRecord) TableName() string {
	return "player_records"
}
