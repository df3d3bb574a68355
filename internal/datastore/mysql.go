package datastore

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mattduff36/vostudiofinder-sub004/internal/conf"
	"github.com/mattduff36/vostudiofinder-sub004/internal/errors"
)

// MySQLStore implements Interface for MySQL.
type MySQLStore struct {
	DataStore
	Settings *conf.DatabaseSettings
}

// Open sets up the MySQL database connection and runs auto-migration.
func (store *MySQLStore) Open() error {
	db, err := gorm.Open(mysql.Open(store.Settings.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return errors.New(err).
			Category(errors.CategoryDatabase).
			Component("datastore").
			Context("db_type", "mysql").
			Build()
	}

	store.DB = db
	return performAutoMigration(db)
}
