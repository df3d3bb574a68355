package datastore

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/mattduff36/vostudiofinder-sub004/internal/errors"
)

// DataStore implements Interface using a GORM database. SQLiteStore and
// MySQLStore embed it and provide Open.
type DataStore struct {
	DB *gorm.DB
}

// performAutoMigration creates or updates the target schema.
func performAutoMigration(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{},
		&Studio{},
		&StudioService{},
		&StudioImage{},
		&UserConnection{},
		&Review{},
		&Payment{},
		&Subscription{},
		&Message{},
		&SupportTicket{},
		&AuditFinding{},
		&EnrichmentSuggestion{},
	); err != nil {
		return errors.New(err).
			Category(errors.CategoryDatabase).
			Component("datastore").
			Context("operation", "auto-migration").
			Build()
	}
	return nil
}

func (ds *DataStore) dbErr(err error, operation string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return errors.New(err).
		Category(errors.CategoryDatabase).
		Component("datastore").
		Context("operation", operation).
		Build()
}

// Close releases the underlying connection.
func (ds *DataStore) Close() error {
	if ds.DB == nil {
		return nil
	}
	sqlDB, err := ds.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// --- Users ---

func (ds *DataStore) CreateUser(user *User) error {
	if err := ds.DB.Create(user).Error; err != nil {
		return ds.dbErr(err, "create-user")
	}
	return nil
}

func (ds *DataStore) GetUser(id string) (*User, error) {
	var user User
	if err := ds.DB.First(&user, "id = ?", id).Error; err != nil {
		return nil, ds.dbErr(err, "get-user")
	}
	return &user, nil
}

// UserByUsernameFold performs a case-insensitive unique username lookup,
// used for collision checking during migration.
func (ds *DataStore) UserByUsernameFold(username string) (*User, error) {
	var user User
	if err := ds.DB.Where("LOWER(username) = LOWER(?)", username).First(&user).Error; err != nil {
		return nil, ds.dbErr(err, "user-by-username")
	}
	return &user, nil
}

func (ds *DataStore) UserByEmail(email string) (*User, error) {
	var user User
	if err := ds.DB.Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err != nil {
		return nil, ds.dbErr(err, "user-by-email")
	}
	return &user, nil
}

func (ds *DataStore) UpdateUser(id string, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	if err := ds.DB.Model(&User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return ds.dbErr(err, "update-user")
	}
	return nil
}

func (ds *DataStore) ListUsers() ([]User, error) {
	var users []User
	if err := ds.DB.Order("id").Find(&users).Error; err != nil {
		return nil, ds.dbErr(err, "list-users")
	}
	return users, nil
}

// --- Studios ---

func (ds *DataStore) CreateStudio(studio *Studio) error {
	if err := ds.DB.Create(studio).Error; err != nil {
		return ds.dbErr(err, "create-studio")
	}
	return nil
}

func (ds *DataStore) GetStudio(id string) (*Studio, error) {
	var studio Studio
	if err := ds.DB.First(&studio, "id = ?", id).Error; err != nil {
		return nil, ds.dbErr(err, "get-studio")
	}
	return &studio, nil
}

func (ds *DataStore) StudioByOwner(ownerID string) (*Studio, error) {
	var studio Studio
	if err := ds.DB.Where("owner_id = ?", ownerID).First(&studio).Error; err != nil {
		return nil, ds.dbErr(err, "studio-by-owner")
	}
	return &studio, nil
}

func (ds *DataStore) UpdateStudio(id string, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	if err := ds.DB.Model(&Studio{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return ds.dbErr(err, "update-studio")
	}
	return nil
}

func (ds *DataStore) ListStudios() ([]Studio, error) {
	var studios []Studio
	if err := ds.DB.Order("id").Find(&studios).Error; err != nil {
		return nil, ds.dbErr(err, "list-studios")
	}
	return studios, nil
}

// --- Studio children ---

// CreateStudioService inserts a (studio, service) pair. The pair is a set:
// a second insert for the same pair returns ErrDuplicateService.
func (ds *DataStore) CreateStudioService(service *StudioService) error {
	var count int64
	if err := ds.DB.Model(&StudioService{}).
		Where("studio_id = ? AND service = ?", service.StudioID, service.Service).
		Count(&count).Error; err != nil {
		return ds.dbErr(err, "check-studio-service")
	}
	if count > 0 {
		return ErrDuplicateService
	}
	if err := ds.DB.Create(service).Error; err != nil {
		return ds.dbErr(err, "create-studio-service")
	}
	return nil
}

func (ds *DataStore) ServicesForStudio(studioID string) ([]StudioService, error) {
	var services []StudioService
	if err := ds.DB.Where("studio_id = ?", studioID).Find(&services).Error; err != nil {
		return nil, ds.dbErr(err, "services-for-studio")
	}
	return services, nil
}

func (ds *DataStore) CreateStudioImage(image *StudioImage) error {
	if err := ds.DB.Create(image).Error; err != nil {
		return ds.dbErr(err, "create-studio-image")
	}
	return nil
}

func (ds *DataStore) ImagesForStudio(studioID string) ([]StudioImage, error) {
	var images []StudioImage
	if err := ds.DB.Where("studio_id = ?", studioID).Order("sort_order").Find(&images).Error; err != nil {
		return nil, ds.dbErr(err, "images-for-studio")
	}
	return images, nil
}

// --- Connections and reviews ---

// CreateConnectionPair writes both directed rows of one accepted contact
// atomically. The rows are independent, so pair atomicity is the only
// requirement.
func (ds *DataStore) CreateConnectionPair(a, b *UserConnection) error {
	err := ds.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(a).Error; err != nil {
			return err
		}
		return tx.Create(b).Error
	})
	if err != nil {
		return ds.dbErr(err, "create-connection-pair")
	}
	return nil
}

// ConnectionCountForUser counts outbound accepted connections for a user.
func (ds *DataStore) ConnectionCountForUser(userID string) (int64, error) {
	var count int64
	if err := ds.DB.Model(&UserConnection{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, ds.dbErr(err, "connection-count")
	}
	return count, nil
}

func (ds *DataStore) CreateReview(review *Review) error {
	if err := ds.DB.Create(review).Error; err != nil {
		return ds.dbErr(err, "create-review")
	}
	return nil
}

func (ds *DataStore) ReviewsForStudio(studioID string) ([]Review, error) {
	var reviews []Review
	if err := ds.DB.Where("studio_id = ?", studioID).Find(&reviews).Error; err != nil {
		return nil, ds.dbErr(err, "reviews-for-studio")
	}
	return reviews, nil
}

// --- Activity signals ---

func (ds *DataStore) ActivityCounts(userID string) (ActivityCounts, error) {
	var counts ActivityCounts
	for _, c := range []struct {
		model  any
		column string
		dst    *int64
	}{
		{&Payment{}, "user_id", &counts.Payments},
		{&Subscription{}, "user_id", &counts.Subscriptions},
		{&Message{}, "sender_id", &counts.Messages},
		{&Review{}, "reviewer_id", &counts.Reviews},
		{&SupportTicket{}, "user_id", &counts.SupportTickets},
	} {
		if err := ds.DB.Model(c.model).Where(fmt.Sprintf("%s = ?", c.column), userID).Count(c.dst).Error; err != nil {
			return ActivityCounts{}, ds.dbErr(err, "activity-counts")
		}
	}
	return counts, nil
}

func (ds *DataStore) HasActiveSubscription(userID string) (bool, error) {
	var count int64
	if err := ds.DB.Model(&Subscription{}).
		Where("user_id = ? AND status = ?", userID, "ACTIVE").
		Count(&count).Error; err != nil {
		return false, ds.dbErr(err, "active-subscription")
	}
	return count > 0, nil
}

// --- Audit findings ---

// ReplaceFindings deletes all existing findings and inserts the new set in
// one transaction. Findings are derived data; no merge is ever performed.
func (ds *DataStore) ReplaceFindings(runID string, findings []AuditFinding) error {
	err := ds.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&AuditFinding{}).Error; err != nil {
			return err
		}
		for i := range findings {
			findings[i].RunID = runID
			if err := tx.Create(&findings[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return ds.dbErr(err, "replace-findings")
	}
	return nil
}

func (ds *DataStore) ListFindings() ([]AuditFinding, error) {
	var findings []AuditFinding
	if err := ds.DB.Order("user_id").Find(&findings).Error; err != nil {
		return nil, ds.dbErr(err, "list-findings")
	}
	return findings, nil
}

func (ds *DataStore) FindingForUser(userID string) (*AuditFinding, error) {
	var finding AuditFinding
	if err := ds.DB.Where("user_id = ?", userID).First(&finding).Error; err != nil {
		return nil, ds.dbErr(err, "finding-for-user")
	}
	return &finding, nil
}

// --- Enrichment suggestions ---

func (ds *DataStore) AppendSuggestions(suggestions []EnrichmentSuggestion) error {
	if len(suggestions) == 0 {
		return nil
	}
	if err := ds.DB.Create(&suggestions).Error; err != nil {
		return ds.dbErr(err, "append-suggestions")
	}
	return nil
}

func (ds *DataStore) SuggestionsForUser(userID string) ([]EnrichmentSuggestion, error) {
	var suggestions []EnrichmentSuggestion
	if err := ds.DB.Where("user_id = ?", userID).Order("id").Find(&suggestions).Error; err != nil {
		return nil, ds.dbErr(err, "suggestions-for-user")
	}
	return suggestions, nil
}

// --- Maintenance ---

// ClearMigrated removes previously migrated rows. Deletion order is the
// strict reverse of the creation order so foreign keys are never violated:
// reviews, connections, images, services, studios, users.
func (ds *DataStore) ClearMigrated(idPrefix string) error {
	pattern := idPrefix + "%"
	err := ds.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id LIKE ?", pattern).Delete(&Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id LIKE ?", pattern).Delete(&UserConnection{}).Error; err != nil {
			return err
		}
		if err := tx.Where("studio_id LIKE ?", pattern).Delete(&StudioImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("studio_id LIKE ?", pattern).Delete(&StudioService{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id LIKE ?", pattern).Delete(&Studio{}).Error; err != nil {
			return err
		}
		return tx.Where("id LIKE ?", pattern).Delete(&User{}).Error
	})
	if err != nil {
		return ds.dbErr(err, "clear-migrated")
	}
	return nil
}
