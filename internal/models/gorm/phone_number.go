package gorm

import (
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"

	"infinite-experiment/calllist/internal/directory"
)

// PhoneNumber is one ranked contact of a station. SortOrder 1 is the primary.
type PhoneNumber struct {
	ID        string    `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	StationID string    `gorm:"column:station_id;type:varchar(36);not null;index" json:"stationId"`
	Label     string    `gorm:"column:label;type:varchar(120);not null" json:"label"`
	Number    string    `gorm:"column:number;type:varchar(20);not null;index" json:"number"`
	SortOrder int       `gorm:"column:sort_order;not null" json:"sortOrder"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// TableName specifies the table name for GORM
func (PhoneNumber) TableName() string {
	return "phone_numbers"
}

func (p *PhoneNumber) BeforeCreate(tx *gormlib.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (p *PhoneNumber) Ranked() directory.Ranked {
	return directory.Ranked{ID: p.ID, Rank: p.SortOrder}
}

func (p *PhoneNumber) Desc() directory.PhoneDesc {
	return directory.PhoneDesc{Label: p.Label, Number: p.Number, Rank: p.SortOrder}
}

// RankedPhones projects phones onto the rank reconciler's view.
func RankedPhones(phones []PhoneNumber) []directory.Ranked {
	out := make([]directory.Ranked, len(phones))
	for i := range phones {
		out[i] = phones[i].Ranked()
	}
	return out
}
