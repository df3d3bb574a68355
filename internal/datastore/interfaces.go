// interfaces.go: defines the storage port for the target database. Every
// component that writes or reads the target schema receives this interface,
// never a shared client.
package datastore

import (
	"github.com/mattduff36/vostudiofinder-sub004/internal/conf"
	"github.com/mattduff36/vostudiofinder-sub004/internal/errors"
)

// Sentinel errors for expected, recoverable conditions.
var (
	// ErrNotFound is returned when a unique lookup matches nothing.
	ErrNotFound = errors.NewStd("record not found")
	// ErrDuplicateService is returned when a (studio, service) pair already
	// exists. Callers treat it as set membership, not a failure.
	ErrDuplicateService = errors.NewStd("studio service already exists")
)

// Interface abstracts the target database implementation.
type Interface interface {
	Open() error
	Close() error

	// Users
	CreateUser(user *User) error
	GetUser(id string) (*User, error)
	UserByUsernameFold(username string) (*User, error)
	UserByEmail(email string) (*User, error)
	UpdateUser(id string, updates map[string]any) error
	ListUsers() ([]User, error)

	// Studios
	CreateStudio(studio *Studio) error
	GetStudio(id string) (*Studio, error)
	StudioByOwner(ownerID string) (*Studio, error)
	UpdateStudio(id string, updates map[string]any) error
	ListStudios() ([]Studio, error)

	// Studio children
	CreateStudioService(service *StudioService) error
	ServicesForStudio(studioID string) ([]StudioService, error)
	CreateStudioImage(image *StudioImage) error
	ImagesForStudio(studioID string) ([]StudioImage, error)

	// Connections and reviews
	CreateConnectionPair(a, b *UserConnection) error
	ConnectionCountForUser(userID string) (int64, error)
	CreateReview(review *Review) error
	ReviewsForStudio(studioID string) ([]Review, error)

	// Activity signals for the audit engine
	ActivityCounts(userID string) (ActivityCounts, error)
	HasActiveSubscription(userID string) (bool, error)

	// Audit findings: replaced wholesale each run
	ReplaceFindings(runID string, findings []AuditFinding) error
	ListFindings() ([]AuditFinding, error)
	FindingForUser(userID string) (*AuditFinding, error)

	// Enrichment suggestions: append-only
	AppendSuggestions(suggestions []EnrichmentSuggestion) error
	SuggestionsForUser(userID string) ([]EnrichmentSuggestion, error)

	// ClearMigrated deletes previously migrated rows (id prefix match) in
	// strict reverse dependency order.
	ClearMigrated(idPrefix string) error
}

// New creates a target store based on the provided configuration.
func New(settings *conf.DatabaseSettings) (Interface, error) {
	switch settings.Type {
	case "sqlite":
		return &SQLiteStore{Settings: settings}, nil
	case "mysql":
		return &MySQLStore{Settings: settings}, nil
	default:
		return nil, errors.Newf("unsupported target database type: %s", settings.Type).
			Category(errors.CategoryConfiguration).
			Component("datastore").
			Build()
	}
}
