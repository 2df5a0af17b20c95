package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"
	gormlib "gorm.io/gorm"

	"infinite-experiment/calllist/internal/constants"
	"infinite-experiment/calllist/internal/models/gorm"
)

// CallLogRow is a call_logs row joined for display.
type CallLogRow struct {
	gorm.CallLog
	CallLetters string `db:"call_letters" json:"callLetters"`
	MarketName  string `db:"market_name" json:"marketName"`
	PhoneLabel  string `db:"phone_label" json:"phoneLabel"`
	CallerName  string `db:"caller_name" json:"callerName"`
}

type CallLogRepo struct {
	db   *gormlib.DB
	read *sqlx.DB
}

func NewCallLogRepo(db *gormlib.DB, read *sqlx.DB) *CallLogRepo {
	return &CallLogRepo{db: db, read: read}
}

// WithTx binds the write side to a running transaction.
func (r *CallLogRepo) WithTx(tx *gormlib.DB) *CallLogRepo {
	return &CallLogRepo{db: tx, read: r.read}
}

func (r *CallLogRepo) Create(ctx context.Context, log *gorm.CallLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// Page returns one page of call logs, newest first. An empty calledBy lists
// every caller.
func (r *CallLogRepo) Page(ctx context.Context, calledBy string, limit, offset int) ([]CallLogRow, error) {
	query := constants.SelectCallLogs
	var args []interface{}
	if calledBy != "" {
		query += constants.CallLogCallerFilter
		args = append(args, calledBy)
	}
	query += constants.CallLogPage
	args = append(args, limit, offset)

	rows := []CallLogRow{}
	err := r.read.SelectContext(ctx, &rows, r.read.Rebind(query), args...)
	return rows, err
}

func (r *CallLogRepo) Count(ctx context.Context, calledBy string) (int64, error) {
	query := constants.CountCallLogs
	var args []interface{}
	if calledBy != "" {
		query += constants.CallLogCallerFilter
		args = append(args, calledBy)
	}

	var total int64
	err := r.read.GetContext(ctx, &total, r.read.Rebind(query), args...)
	return total, err
}
