package repositories

import (
	"context"
	"errors"

	gormlib "gorm.io/gorm"

	"infinite-experiment/calllist/internal/models/gorm"
)

type UserRepo struct {
	db *gormlib.DB
}

// NewUserRepo creates a new GORM-based user repository
func NewUserRepo(db *gormlib.DB) *UserRepo {
	return &UserRepo{db: db}
}

// FindByID returns the user or nil.
func (r *UserRepo) FindByID(ctx context.Context, id string) (*gorm.User, error) {
	var user gorm.User

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) Create(ctx context.Context, user *gorm.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}
