package gorm

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"

	"infinite-experiment/calllist/internal/constants"
	"infinite-experiment/calllist/internal/directory"
)

// Station is a broadcast station in one feed. (market_number, feed) is the
// natural key the feed importer matches on.
type Station struct {
	ID              string                    `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	MarketNumber    int                       `gorm:"column:market_number;not null;uniqueIndex:idx_station_natural_key" json:"marketNumber"`
	MarketName      string                    `gorm:"column:market_name;type:varchar(120);not null" json:"marketName"`
	CallLetters     string                    `gorm:"column:call_letters;type:varchar(40);not null" json:"callLetters"`
	Feed            constants.Feed            `gorm:"column:feed;type:varchar(8);not null;uniqueIndex:idx_station_natural_key" json:"feed"`
	BroadcastStatus constants.BroadcastStatus `gorm:"column:broadcast_status;type:varchar(16)" json:"broadcastStatus"`
	AirTimeLocal    string                    `gorm:"column:air_time_local;type:varchar(40)" json:"airTimeLocal"`
	AirTimeET       string                    `gorm:"column:air_time_et;type:varchar(40)" json:"airTimeET"`
	IsActive        bool                      `gorm:"column:is_active;not null" json:"isActive"`
	CreatedAt       time.Time                 `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time                 `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`

	// Relationships
	Phones []PhoneNumber `gorm:"foreignKey:StationID;constraint:OnDelete:CASCADE" json:"phones"`
}

// TableName specifies the table name for GORM
func (Station) TableName() string {
	return "stations"
}

func (s *Station) BeforeCreate(tx *gormlib.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// AuditSnapshot stringifies the patchable fields the way edit_logs stores them.
func (s *Station) AuditSnapshot() directory.Snapshot {
	return directory.Snapshot{
		constants.FieldMarketName:      s.MarketName,
		constants.FieldCallLetters:     s.CallLetters,
		constants.FieldFeed:            string(s.Feed),
		constants.FieldBroadcastStatus: string(s.BroadcastStatus),
		constants.FieldAirTimeLocal:    s.AirTimeLocal,
		constants.FieldAirTimeET:       s.AirTimeET,
		constants.FieldIsActive:        strconv.FormatBool(s.IsActive),
	}
}

// PhoneNumbers returns the canonical numbers in rank order. Phones must
// already be sorted by sort_order.
func (s *Station) PhoneNumbers() []string {
	out := make([]string, len(s.Phones))
	for i, p := range s.Phones {
		out[i] = p.Number
	}
	return out
}

// Primary is the phone with sort_order 1, or nil.
func (s *Station) Primary() *PhoneNumber {
	for i := range s.Phones {
		if s.Phones[i].SortOrder == 1 {
			return &s.Phones[i]
		}
	}
	return nil
}
