package constants

import (
	"database/sql/driver"
	"fmt"
)

// Role mirrors the users.role column
type Role string

const (
	RoleProducer Role = "producer"
	RoleAdmin    Role = "admin"
	RoleViewer   Role = "viewer"
)

// Stringer ­– convenient for fmt / logs
func (r Role) String() string { return string(r) }

// CanEdit reports whether the role may mutate stations, phones or log calls.
func (r Role) CanEdit() bool { return r == RoleProducer || r == RoleAdmin }

/* ---------- DB adapters so sqlx (or database/sql) scans/values cleanly ---------- */

// Scan implements the sql.Scanner interface
func (r *Role) Scan(src interface{}) error {
	if src == nil {
		*r = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*r = Role(v)
	case []byte:
		*r = Role(v)
	default:
		return fmt.Errorf("Role: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (r Role) Value() (driver.Value, error) { return string(r), nil }
