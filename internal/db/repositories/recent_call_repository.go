package repositories

import (
	"context"
	"time"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"

	"infinite-experiment/calllist/internal/directory"
	"infinite-experiment/calllist/internal/models/gorm"
)

// RecentCallRepo handles the recent_calls ledger
type RecentCallRepo struct {
	db *gormlib.DB
}

func NewRecentCallRepo(db *gormlib.DB) *RecentCallRepo {
	return &RecentCallRepo{db: db}
}

// WithTx binds the repository to a running transaction.
func (r *RecentCallRepo) WithTx(tx *gormlib.DB) *RecentCallRepo {
	return &RecentCallRepo{db: tx}
}

// Ledger times are stored in UTC so range filters compare instants on every
// driver, including SQLite where timestamps are text.

// Upsert records a call for number. The latest call wins.
// ON CONFLICT (number) DO UPDATE
func (r *RecentCallRepo) Upsert(ctx context.Context, number string, at time.Time) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "number"}},
			DoUpdates: clause.AssignmentColumns([]string{"called_at"}),
		}).
		Create(&gorm.RecentCall{Number: number, CalledAt: at.UTC()}).Error
}

// Since returns ledger entries at or after since.
func (r *RecentCallRepo) Since(ctx context.Context, since time.Time) ([]directory.RecentCall, error) {
	var rows []gorm.RecentCall
	err := r.db.WithContext(ctx).
		Where("called_at >= ?", since.UTC()).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	calls := make([]directory.RecentCall, len(rows))
	for i, row := range rows {
		calls[i] = directory.RecentCall{Number: row.Number, CalledAt: row.CalledAt.In(since.Location())}
	}
	return calls, nil
}

// DeleteAll clears the ledger. An empty ledger is not an error.
func (r *RecentCallRepo) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Session(&gormlib.Session{AllowGlobalUpdate: true}).
		Delete(&gorm.RecentCall{})
	return res.RowsAffected, res.Error
}

// DeleteBefore drops entries older than cutoff.
func (r *RecentCallRepo) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("called_at < ?", cutoff.UTC()).
		Delete(&gorm.RecentCall{})
	return res.RowsAffected, res.Error
}
