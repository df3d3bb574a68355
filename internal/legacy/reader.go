// Package legacy reads the legacy source-of-truth database. All access is
// read-only; the migration never writes back to the legacy store.
package legacy

import (
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mattduff36/vostudiofinder-sub004/internal/conf"
	"github.com/mattduff36/vostudiofinder-sub004/internal/errors"
)

// Reader exposes typed accessors over the legacy tables.
type Reader struct {
	DB *gorm.DB
}

// Open connects to the legacy store selected by the configuration.
func Open(settings *conf.DatabaseSettings) (*Reader, error) {
	var dialector gorm.Dialector
	switch settings.Type {
	case "sqlite":
		dialector = sqlite.Open(settings.Path)
	case "mysql":
		dialector = mysql.Open(settings.DSN)
	default:
		return nil, errors.Newf("unsupported legacy database type: %s", settings.Type).
			Category(errors.CategoryConfiguration).
			Component("legacy").
			Build()
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryLegacyRead).
			Component("legacy").
			Context("db_type", settings.Type).
			Build()
	}
	return &Reader{DB: db}, nil
}

// Close releases the underlying connection.
func (r *Reader) Close() error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Counts returns per-table row counts for preflight validation.
func (r *Reader) Counts() (Counts, error) {
	var c Counts
	for _, t := range []struct {
		model any
		dst   *int64
	}{
		{&User{}, &c.Users},
		{&MetaRow{}, &c.Metadata},
		{&GalleryImage{}, &c.Gallery},
		{&Contact{}, &c.Contacts},
		{&Review{}, &c.Reviews},
	} {
		if err := r.DB.Model(t.model).Count(t.dst).Error; err != nil {
			return Counts{}, errors.New(err).
				Category(errors.CategoryLegacyRead).
				Component("legacy").
				Build()
		}
	}
	return c, nil
}

// Users returns every legacy user row.
func (r *Reader) Users() ([]User, error) {
	var users []User
	if err := r.DB.Order("id").Find(&users).Error; err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryLegacyRead).
			Component("legacy").
			Build()
	}
	return users, nil
}

// AllMetadata loads the full usermeta table into per-user bags.
func (r *Reader) AllMetadata() (map[int64]Bag, error) {
	var rows []MetaRow
	if err := r.DB.Find(&rows).Error; err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryLegacyRead).
			Component("legacy").
			Build()
	}
	bags := make(map[int64]Bag)
	for _, row := range rows {
		bag, ok := bags[row.UserID]
		if !ok {
			bag = make(Bag)
			bags[row.UserID] = bag
		}
		bag[row.Key] = row.Value
	}
	return bags, nil
}

// MetadataFor returns the metadata bag for one legacy user.
func (r *Reader) MetadataFor(userID int64) (Bag, error) {
	var rows []MetaRow
	if err := r.DB.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryLegacyRead).
			Component("legacy").
			Context("user_id", userID).
			Build()
	}
	bag := make(Bag, len(rows))
	for _, row := range rows {
		bag[row.Key] = row.Value
	}
	return bag, nil
}

// GalleryImages returns all gallery rows ordered by owner then display order.
func (r *Reader) GalleryImages() ([]GalleryImage, error) {
	var images []GalleryImage
	if err := r.DB.Order("user_id, display_order").Find(&images).Error; err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryLegacyRead).
			Component("legacy").
			Build()
	}
	return images, nil
}

// AcceptedContacts returns contact rows that were mutually accepted.
func (r *Reader) AcceptedContacts() ([]Contact, error) {
	var contacts []Contact
	if err := r.DB.Where("accepted = ?", 1).Order("id").Find(&contacts).Error; err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryLegacyRead).
			Component("legacy").
			Build()
	}
	return contacts, nil
}

// Reviews returns every legacy review row.
func (r *Reader) Reviews() ([]Review, error) {
	var reviews []Review
	if err := r.DB.Order("id").Find(&reviews).Error; err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryLegacyRead).
			Component("legacy").
			Build()
	}
	return reviews, nil
}
