package repositories

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	gormlib "gorm.io/gorm"

	"infinite-experiment/calllist/internal/constants"
	"infinite-experiment/calllist/internal/directory"
	"infinite-experiment/calllist/internal/models/gorm"
)

// EditLogRow is an edit_logs row joined with its station and editor for display.
type EditLogRow struct {
	gorm.EditLog
	CallLetters string `db:"call_letters" json:"callLetters"`
	MarketName  string `db:"market_name" json:"marketName"`
	EditorName  string `db:"editor_name" json:"editorName"`
}

// EditLogRepo appends audit rows through GORM and pages them through sqlx.
type EditLogRepo struct {
	db   *gormlib.DB
	read *sqlx.DB
}

func NewEditLogRepo(db *gormlib.DB, read *sqlx.DB) *EditLogRepo {
	return &EditLogRepo{db: db, read: read}
}

// WithTx binds the write side to a running transaction.
func (r *EditLogRepo) WithTx(tx *gormlib.DB) *EditLogRepo {
	return &EditLogRepo{db: tx, read: r.read}
}

// Append records changes for one station by one editor at one instant.
func (r *EditLogRepo) Append(ctx context.Context, stationID, editedBy string, at time.Time, changes []directory.Change) error {
	if len(changes) == 0 {
		return nil
	}
	rows := make([]gorm.EditLog, len(changes))
	for i, c := range changes {
		rows[i] = gorm.EditLog{
			StationID: stationID,
			Field:     c.Field,
			OldValue:  c.OldValue,
			NewValue:  c.NewValue,
			EditedBy:  editedBy,
			CreatedAt: at,
		}
	}
	return r.db.WithContext(ctx).CreateInBatches(&rows, 100).Error
}

// ByStation returns a station's audit rows oldest first.
func (r *EditLogRepo) ByStation(ctx context.Context, stationID string) ([]gorm.EditLog, error) {
	var logs []gorm.EditLog
	err := r.db.WithContext(ctx).
		Where("station_id = ?", stationID).
		Order("created_at ASC, field ASC").
		Find(&logs).Error
	return logs, err
}

// Page returns one page of audit rows, newest first. An empty stationID
// lists every station.
func (r *EditLogRepo) Page(ctx context.Context, stationID string, limit, offset int) ([]EditLogRow, error) {
	query := constants.SelectEditLogs
	var args []interface{}
	if stationID != "" {
		query += constants.EditLogStationFilter
		args = append(args, stationID)
	}
	query += constants.EditLogPage
	args = append(args, limit, offset)

	rows := []EditLogRow{}
	err := r.read.SelectContext(ctx, &rows, r.read.Rebind(query), args...)
	return rows, err
}

func (r *EditLogRepo) Count(ctx context.Context, stationID string) (int64, error) {
	query := constants.CountEditLogs
	var args []interface{}
	if stationID != "" {
		query += constants.EditLogStationFilter
		args = append(args, stationID)
	}

	var total int64
	err := r.read.GetContext(ctx, &total, r.read.Rebind(query), args...)
	return total, err
}
