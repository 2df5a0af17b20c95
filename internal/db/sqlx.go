package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"gorm.io/gorm"
)

// ReadDB exposes the ORM's pool to sqlx for the joined, paged audit queries.
// Postgres reads go through lib/pq; the other drivers share GORM's pool.
func ReadDB(orm *gorm.DB, driver, dsn string) (*sqlx.DB, error) {
	if driver == "postgres" {
		db, err := sqlx.Connect("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("sqlx connect: %w", err)
		}
		return db, nil
	}

	sqlDB, err := orm.DB()
	if err != nil {
		return nil, err
	}
	name := driver
	if driver == "sqlite" {
		name = "sqlite3"
	}
	return sqlx.NewDb(sqlDB, name), nil
}
