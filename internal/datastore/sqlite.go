package datastore

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mattduff36/vostudiofinder-sub004/internal/conf"
	"github.com/mattduff36/vostudiofinder-sub004/internal/errors"
)

// SQLiteStore implements Interface for SQLite.
type SQLiteStore struct {
	DataStore
	Settings *conf.DatabaseSettings
}

// Open sets up the SQLite database connection and runs auto-migration.
func (store *SQLiteStore) Open() error {
	db, err := gorm.Open(sqlite.Open(store.Settings.Path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return errors.New(err).
			Category(errors.CategoryDatabase).
			Component("datastore").
			Context("db_type", "sqlite").
			Build()
	}

	store.DB = db
	return performAutoMigration(db)
}
