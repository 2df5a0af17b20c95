package repositories

import (
	"context"
	"errors"

	gormlib "gorm.io/gorm"

	"infinite-experiment/calllist/internal/directory"
	"infinite-experiment/calllist/internal/models/gorm"
)

// PhoneRepo handles phone_numbers table operations
type PhoneRepo struct {
	db *gormlib.DB
}

// NewPhoneRepo creates a new phone repository
func NewPhoneRepo(db *gormlib.DB) *PhoneRepo {
	return &PhoneRepo{db: db}
}

// WithTx binds the repository to a running transaction.
func (r *PhoneRepo) WithTx(tx *gormlib.DB) *PhoneRepo {
	return &PhoneRepo{db: tx}
}

// ListByStation returns a station's phones in rank order.
func (r *PhoneRepo) ListByStation(ctx context.Context, stationID string) ([]gorm.PhoneNumber, error) {
	var phones []gorm.PhoneNumber
	err := r.db.WithContext(ctx).
		Where("station_id = ?", stationID).
		Order("sort_order ASC").
		Find(&phones).Error
	return phones, err
}

// FindInStation returns the phone only if it belongs to stationID, or nil.
func (r *PhoneRepo) FindInStation(ctx context.Context, stationID, phoneID string) (*gorm.PhoneNumber, error) {
	var phone gorm.PhoneNumber
	err := r.db.WithContext(ctx).
		Where("id = ? AND station_id = ?", phoneID, stationID).
		First(&phone).Error
	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &phone, nil
}

func (r *PhoneRepo) Create(ctx context.Context, phone *gorm.PhoneNumber) error {
	return translate(r.db.WithContext(ctx).Create(phone).Error)
}

// CreateMany inserts a replacement set in one statement.
func (r *PhoneRepo) CreateMany(ctx context.Context, phones []gorm.PhoneNumber) error {
	if len(phones) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Create(&phones).Error)
}

// Update writes label/number columns. sort_order goes through ApplyRanks.
func (r *PhoneRepo) Update(ctx context.Context, id string, values map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&gorm.PhoneNumber{}).
		Where("id = ?", id).
		Updates(values)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return directory.ErrPhoneNotInStation
	}
	return nil
}

// ApplyRanks writes each rank change. Phones created in the same operation
// (From == 0) are expected to be inserted with their rank already set.
func (r *PhoneRepo) ApplyRanks(ctx context.Context, changes []directory.RankChange) error {
	for _, c := range changes {
		if c.From == 0 {
			continue
		}
		err := r.db.WithContext(ctx).
			Model(&gorm.PhoneNumber{}).
			Where("id = ?", c.ID).
			UpdateColumn("sort_order", c.To).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *PhoneRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&gorm.PhoneNumber{}).Error
}

// DeleteByStation drops a station's whole phone set. Used by the full-replace path.
func (r *PhoneRepo) DeleteByStation(ctx context.Context, stationID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("station_id = ?", stationID).Delete(&gorm.PhoneNumber{})
	return res.RowsAffected, res.Error
}
