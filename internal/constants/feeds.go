package constants

import (
	"database/sql/driver"
	"fmt"
)

// Feed is one of the three daily broadcast windows a station reports into.
type Feed string

const (
	Feed3PM Feed = "3pm"
	Feed5PM Feed = "5pm"
	Feed6PM Feed = "6pm"
)

// Feeds lists every feed in broadcast order.
var Feeds = []Feed{Feed3PM, Feed5PM, Feed6PM}

func (f Feed) String() string { return string(f) }

func (f Feed) IsValid() bool {
	switch f {
	case Feed3PM, Feed5PM, Feed6PM:
		return true
	}
	return false
}

// Scan implements the sql.Scanner interface
func (f *Feed) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*f = ""
	case string:
		*f = Feed(v)
	case []byte:
		*f = Feed(v)
	default:
		return fmt.Errorf("Feed: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (f Feed) Value() (driver.Value, error) { return string(f), nil }

// BroadcastStatus is the station's on-air status. The empty value means no status.
type BroadcastStatus string

const (
	StatusNone   BroadcastStatus = ""
	StatusLive   BroadcastStatus = "live"
	StatusRerack BroadcastStatus = "rerack"
	StatusMight  BroadcastStatus = "might"
)

func (s BroadcastStatus) String() string { return string(s) }

func (s BroadcastStatus) IsValid() bool {
	switch s {
	case StatusNone, StatusLive, StatusRerack, StatusMight:
		return true
	}
	return false
}

// Scan implements the sql.Scanner interface
func (s *BroadcastStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*s = StatusNone
	case string:
		*s = BroadcastStatus(v)
	case []byte:
		*s = BroadcastStatus(v)
	default:
		return fmt.Errorf("BroadcastStatus: cannot scan type %T", src)
	}
	return nil
}

// Value stores StatusNone as NULL.
func (s BroadcastStatus) Value() (driver.Value, error) {
	if s == StatusNone {
		return nil, nil
	}
	return string(s), nil
}
