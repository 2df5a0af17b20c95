package gorm

import (
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

// CallLog is the permanent record of a producer starting a call. Rows are
// never updated or deleted, and outlive the station and phone they reference.
type CallLog struct {
	ID          string    `gorm:"column:id;primaryKey;type:varchar(36)" json:"id" db:"id"`
	StationID   string    `gorm:"column:station_id;type:varchar(36);not null;index" json:"stationId" db:"station_id"`
	PhoneID     string    `gorm:"column:phone_id;type:varchar(36);not null" json:"phoneId" db:"phone_id"`
	PhoneNumber string    `gorm:"column:phone_number;type:varchar(20);not null" json:"phoneNumber" db:"phone_number"`
	CalledBy    string    `gorm:"column:called_by;type:varchar(36);not null;index" json:"calledBy" db:"called_by"`
	CreatedAt   time.Time `gorm:"column:created_at;index" json:"createdAt" db:"created_at"`
}

// TableName specifies the table name for GORM
func (CallLog) TableName() string {
	return "call_logs"
}

func (c *CallLog) BeforeCreate(tx *gormlib.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// RecentCall is the latest call per canonical number, used only for the
// "called today" hint. Clearing it never touches CallLog.
type RecentCall struct {
	Number   string    `gorm:"column:number;primaryKey;type:varchar(20)" json:"number"`
	CalledAt time.Time `gorm:"column:called_at;not null;index" json:"calledAt"`
}

// TableName specifies the table name for GORM
func (RecentCall) TableName() string {
	return "recent_calls"
}

// EditLog is one changed field of one edit. Append-only.
type EditLog struct {
	ID        string    `gorm:"column:id;primaryKey;type:varchar(36)" json:"id" db:"id"`
	StationID string    `gorm:"column:station_id;type:varchar(36);not null;index" json:"stationId" db:"station_id"`
	Field     string    `gorm:"column:field;type:varchar(40);not null" json:"field" db:"field"`
	OldValue  string    `gorm:"column:old_value;type:text" json:"oldValue" db:"old_value"`
	NewValue  string    `gorm:"column:new_value;type:text" json:"newValue" db:"new_value"`
	EditedBy  string    `gorm:"column:edited_by;type:varchar(36);not null" json:"editedBy" db:"edited_by"`
	CreatedAt time.Time `gorm:"column:created_at;index" json:"createdAt" db:"created_at"`
}

// TableName specifies the table name for GORM
func (EditLog) TableName() string {
	return "edit_logs"
}

func (e *EditLog) BeforeCreate(tx *gormlib.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
