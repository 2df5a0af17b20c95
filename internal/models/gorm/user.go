package gorm

import (
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"

	"infinite-experiment/calllist/internal/constants"
)

// User is a producer, admin or viewer. PIN hashing and session issuance live
// outside this service; only the identity is referenced here.
type User struct {
	ID        string         `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	Name      string         `gorm:"column:name;type:varchar(80);not null" json:"name"`
	PinHash   string         `gorm:"column:pin_hash;type:varchar(100)" json:"-"`
	Role      constants.Role `gorm:"column:role;type:varchar(16);not null;default:producer" json:"role"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gormlib.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// All returns every model for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Station{},
		&PhoneNumber{},
		&CallLog{},
		&RecentCall{},
		&EditLog{},
	}
}
