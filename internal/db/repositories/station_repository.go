package repositories

import (
	"context"
	"errors"
	"time"

	gormlib "gorm.io/gorm"

	"infinite-experiment/calllist/internal/constants"
	"infinite-experiment/calllist/internal/directory"
	"infinite-experiment/calllist/internal/models/gorm"
)

// StationRepo handles stations table operations
type StationRepo struct {
	db *gormlib.DB
}

// NewStationRepo creates a new station repository
func NewStationRepo(db *gormlib.DB) *StationRepo {
	return &StationRepo{db: db}
}

// WithTx binds the repository to a running transaction.
func (r *StationRepo) WithTx(tx *gormlib.DB) *StationRepo {
	return &StationRepo{db: tx}
}

func orderedPhones(db *gormlib.DB) *gormlib.DB {
	return db.Order("sort_order ASC")
}

// FindByNaturalKey looks a station up by (market_number, feed). Returns nil
// when absent.
func (r *StationRepo) FindByNaturalKey(ctx context.Context, marketNumber int, feed constants.Feed) (*gorm.Station, error) {
	var station gorm.Station

	err := r.db.WithContext(ctx).
		Preload("Phones", orderedPhones).
		Where("market_number = ? AND feed = ?", marketNumber, feed).
		First(&station).Error

	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &station, nil
}

// FindByID returns the station with its phones in rank order, or nil.
func (r *StationRepo) FindByID(ctx context.Context, id string) (*gorm.Station, error) {
	var station gorm.Station

	err := r.db.WithContext(ctx).
		Preload("Phones", orderedPhones).
		Where("id = ?", id).
		First(&station).Error

	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &station, nil
}

// FindByIDs returns whichever of ids exist, without phones.
func (r *StationRepo) FindByIDs(ctx context.Context, ids []string) ([]gorm.Station, error) {
	var stations []gorm.Station
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&stations).Error
	return stations, err
}

// ListActive returns active stations, optionally for one feed, ordered by
// market number with phones in rank order.
func (r *StationRepo) ListActive(ctx context.Context, feed constants.Feed) ([]gorm.Station, error) {
	var stations []gorm.Station

	q := r.db.WithContext(ctx).
		Preload("Phones", orderedPhones).
		Where("is_active = ?", true)
	if feed != "" {
		q = q.Where("feed = ?", feed)
	}

	err := q.Order("market_number ASC").Find(&stations).Error
	return stations, err
}

func (r *StationRepo) Create(ctx context.Context, station *gorm.Station) error {
	return translate(r.db.WithContext(ctx).Omit("Phones").Create(station).Error)
}

// Update writes the given column values. Unknown ids yield ErrStationNotFound.
func (r *StationRepo) Update(ctx context.Context, id string, values map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&gorm.Station{}).
		Where("id = ?", id).
		Updates(values)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return directory.ErrStationNotFound
	}
	return nil
}

// UpdateMany applies the same column values to every id.
func (r *StationRepo) UpdateMany(ctx context.Context, ids []string, values map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&gorm.Station{}).
		Where("id IN ?", ids).
		Updates(values)
	return res.RowsAffected, translate(res.Error)
}

// Touch bumps updated_at. Inside a transaction this takes the station's row
// lock, so rank mutations on the same station run one at a time.
func (r *StationRepo) Touch(ctx context.Context, id string, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&gorm.Station{}).
		Where("id = ?", id).
		UpdateColumn("updated_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return directory.ErrStationNotFound
	}
	return nil
}
