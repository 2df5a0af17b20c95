package services

import (
	"context"
	"strconv"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"infinite-experiment/calllist/internal/db/repositories"
	"infinite-experiment/calllist/internal/directory"
)

// Store bundles the repositories a service needs so they can be rebound to
// one transaction together.
type Store struct {
	DB          *gorm.DB
	Stations    *repositories.StationRepo
	Phones      *repositories.PhoneRepo
	EditLogs    *repositories.EditLogRepo
	CallLogs    *repositories.CallLogRepo
	RecentCalls *repositories.RecentCallRepo
	Users       *repositories.UserRepo
}

func NewStore(orm *gorm.DB, read *sqlx.DB) *Store {
	return &Store{
		DB:          orm,
		Stations:    repositories.NewStationRepo(orm),
		Phones:      repositories.NewPhoneRepo(orm),
		EditLogs:    repositories.NewEditLogRepo(orm, read),
		CallLogs:    repositories.NewCallLogRepo(orm, read),
		RecentCalls: repositories.NewRecentCallRepo(orm),
		Users:       repositories.NewUserRepo(orm),
	}
}

func (s *Store) withTx(tx *gorm.DB) *Store {
	return &Store{
		DB:          tx,
		Stations:    s.Stations.WithTx(tx),
		Phones:      s.Phones.WithTx(tx),
		EditLogs:    s.EditLogs.WithTx(tx),
		CallLogs:    s.CallLogs.WithTx(tx),
		RecentCalls: s.RecentCalls.WithTx(tx),
		Users:       s.Users,
	}
}

// Transaction runs fn with every repository bound to one transaction.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(s.withTx(tx))
	})
}

// stationColumns converts a patch to column updates. Only set fields appear.
func stationColumns(patch directory.StationPatch) map[string]interface{} {
	cols := map[string]interface{}{}
	if patch.MarketName != nil {
		cols["market_name"] = *patch.MarketName
	}
	if patch.CallLetters != nil {
		cols["call_letters"] = *patch.CallLetters
	}
	if patch.Feed != nil {
		cols["feed"] = *patch.Feed
	}
	if patch.BroadcastStatus != nil {
		cols["broadcast_status"] = *patch.BroadcastStatus
	}
	if patch.AirTimeLocal != nil {
		cols["air_time_local"] = *patch.AirTimeLocal
	}
	if patch.AirTimeET != nil {
		cols["air_time_et"] = *patch.AirTimeET
	}
	if patch.IsActive != nil {
		cols["is_active"] = *patch.IsActive
	}
	return cols
}

func rowLabel(row directory.FeedRow, index int) string {
	line := row.Line
	if line == 0 {
		// header is line 1
		line = index + 2
	}
	return "Row " + strconv.Itoa(line)
}
