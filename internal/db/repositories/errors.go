package repositories

import (
	"errors"

	gormlib "gorm.io/gorm"

	"infinite-experiment/calllist/internal/directory"
)

// translate maps storage errors onto the directory taxonomy.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gormlib.ErrDuplicatedKey):
		return errors.Join(directory.ErrConflict, err)
	case errors.Is(err, gormlib.ErrRecordNotFound):
		return errors.Join(directory.ErrNotFound, err)
	default:
		return err
	}
}
