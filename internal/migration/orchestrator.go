// Package migration drives the one-shot legacy-to-target migration run.
// Stages execute in strict dependency order; each stage isolates per-record
// failures and reports aggregate statistics.
package migration

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/mattduff36/vostudiofinder-sub004/internal/datastore"
	"github.com/mattduff36/vostudiofinder-sub004/internal/errors"
	"github.com/mattduff36/vostudiofinder-sub004/internal/legacy"
	"github.com/mattduff36/vostudiofinder-sub004/internal/logging"
	"github.com/mattduff36/vostudiofinder-sub004/internal/mapper"
)

// Package-level logger specific to the migration service.
var (
	logger      *slog.Logger
	closeLogger func() error
)

func init() {
	var err error
	logFilePath := filepath.Join(logging.Dir(), "migration.log")
	logger, closeLogger, err = logging.NewFileLogger(logFilePath, "migration", slog.LevelDebug)
	if err != nil {
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})
		logger = slog.New(fbHandler).With("service", "migration")
		closeLogger = func() error { return nil }
	}
}

// Source is the read side of the migration: the legacy store accessors the
// orchestrator pulls from. *legacy.Reader satisfies it.
type Source interface {
	Counts() (legacy.Counts, error)
	Users() ([]legacy.User, error)
	AllMetadata() (map[int64]legacy.Bag, error)
	GalleryImages() ([]legacy.GalleryImage, error)
	AcceptedContacts() ([]legacy.Contact, error)
	Reviews() ([]legacy.Review, error)
}

// Options configure one migration run.
type Options struct {
	IDPrefix    string
	ClearTarget bool
	Out         io.Writer // run summary destination; nil silences it
}

// Orchestrator runs the staged migration. Both stores are injected.
type Orchestrator struct {
	source Source
	target datastore.Interface
	opts   Options

	users []legacy.User
	meta  map[int64]legacy.Bag
}

// New creates an orchestrator over an opened source and target.
func New(source Source, target datastore.Interface, opts Options) *Orchestrator {
	if opts.IDPrefix == "" {
		opts.IDPrefix = "legacy-"
	}
	return &Orchestrator{source: source, target: target, opts: opts}
}

// Run executes the full pipeline: validate, clear, then each entity stage in
// dependency order. Per-record failures never abort a stage; a preflight
// failure aborts the whole run.
func (o *Orchestrator) Run() (*Report, error) {
	if err := o.validateSource(); err != nil {
		return nil, err
	}

	if o.opts.ClearTarget {
		logger.Info("clearing previously migrated records", "id_prefix", o.opts.IDPrefix)
		if err := o.target.ClearMigrated(o.opts.IDPrefix); err != nil {
			return nil, errors.New(err).
				Category(errors.CategoryMigration).
				Component("migration").
				Context("step", "clear-target").
				Build()
		}
	}

	if err := o.loadSource(); err != nil {
		return nil, err
	}

	report := NewReport()
	report.Stages[StageUsers] = o.migrateUsers()
	report.Stages[StageStudios] = o.migrateStudios()
	report.Stages[StageServices] = o.migrateServices()
	report.Stages[StageImages] = o.migrateImages()
	report.Stages[StageConnections] = o.migrateConnections()
	report.Stages[StageReviews] = o.migrateReviews()

	if o.opts.Out != nil {
		fmt.Fprint(o.opts.Out, report.Summary())
	}
	logger.Info("migration run finished",
		"success", report.Success(),
		"errors", report.TotalErrors())

	return report, nil
}

// validateSource confirms the legacy store is reachable and logs row counts.
// Failure here is fatal; nothing has been written yet.
func (o *Orchestrator) validateSource() error {
	counts, err := o.source.Counts()
	if err != nil {
		return errors.New(err).
			Category(errors.CategoryMigration).
			Component("migration").
			Context("step", "preflight").
			Build()
	}
	logger.Info("source validated",
		"users", counts.Users,
		"metadata", counts.Metadata,
		"gallery", counts.Gallery,
		"contacts", counts.Contacts,
		"reviews", counts.Reviews)
	if o.opts.Out != nil {
		fmt.Fprintf(o.opts.Out,
			"Source counts: users=%d metadata=%d gallery=%d contacts=%d reviews=%d\n",
			counts.Users, counts.Metadata, counts.Gallery, counts.Contacts, counts.Reviews)
	}
	return nil
}

func (o *Orchestrator) loadSource() error {
	users, err := o.source.Users()
	if err != nil {
		return err
	}
	meta, err := o.source.AllMetadata()
	if err != nil {
		return err
	}
	o.users = users
	o.meta = meta
	return nil
}

func (o *Orchestrator) bagFor(userID int64) legacy.Bag {
	if bag, ok := o.meta[userID]; ok {
		return bag
	}
	return legacy.Bag{}
}

// uniqueUsername appends an increasing numeric suffix until the candidate is
// free in the target store. The check is case-insensitive.
func (o *Orchestrator) uniqueUsername(candidate string) (string, error) {
	base := candidate
	for suffix := 1; ; suffix++ {
		_, err := o.target.UserByUsernameFold(candidate)
		if errors.Is(err, datastore.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		candidate = base + strconv.Itoa(suffix)
	}
}

func (o *Orchestrator) migrateUsers() Stats {
	var stats Stats
	stats.Total = len(o.users)

	for i := range o.users {
		user := &o.users[i]
		mapped, err := mapper.MapUser(user, o.bagFor(user.ID), o.opts.IDPrefix)
		if err != nil {
			stats.Errors++
			logger.Error("user mapping failed", "legacy_id", user.ID, "error", err)
			continue
		}
		mapped.Username, err = o.uniqueUsername(mapped.Username)
		if err != nil {
			stats.Errors++
			logger.Error("username collision check failed", "legacy_id", user.ID, "error", err)
			continue
		}
		if err := o.target.CreateUser(&mapped); err != nil {
			stats.Errors++
			logger.Error("user insert failed", "legacy_id", user.ID, "error", err)
			continue
		}
		stats.Migrated++
	}

	logger.Info("users migrated", "total", stats.Total, "migrated", stats.Migrated, "errors", stats.Errors)
	return stats
}

func (o *Orchestrator) migrateStudios() Stats {
	var stats Stats
	stats.Total = len(o.users)

	for i := range o.users {
		user := &o.users[i]
		if mapper.MapRole(user.RoleID) != datastore.RoleStudioOwner {
			stats.Skipped++
			continue
		}
		// Studio requires its owner to already exist in the target.
		if _, err := o.target.GetUser(mapper.UserID(o.opts.IDPrefix, user.ID)); err != nil {
			stats.Skipped++
			logger.Debug("studio skipped, owner not found", "legacy_id", user.ID)
			continue
		}
		studio := mapper.MapStudio(user, o.bagFor(user.ID), o.opts.IDPrefix)
		if err := o.target.CreateStudio(&studio); err != nil {
			stats.Errors++
			logger.Error("studio insert failed", "legacy_id", user.ID, "error", err)
			continue
		}
		stats.Migrated++
	}

	logger.Info("studios migrated", "total", stats.Total, "migrated", stats.Migrated,
		"skipped", stats.Skipped, "errors", stats.Errors)
	return stats
}

func (o *Orchestrator) migrateServices() Stats {
	var stats Stats
	stats.Total = len(o.users)

	for i := range o.users {
		user := &o.users[i]
		services := mapper.Services(o.bagFor(user.ID))
		if len(services) == 0 {
			stats.Skipped++
			continue
		}
		studio, err := o.target.StudioByOwner(mapper.UserID(o.opts.IDPrefix, user.ID))
		if errors.Is(err, datastore.ErrNotFound) {
			stats.Skipped++
			continue
		}
		if err != nil {
			stats.Errors++
			logger.Error("studio lookup failed", "legacy_id", user.ID, "error", err)
			continue
		}

		failed := false
		for _, service := range services {
			err := o.target.CreateStudioService(&datastore.StudioService{
				StudioID: studio.ID,
				Service:  service,
			})
			if errors.Is(err, datastore.ErrDuplicateService) {
				// Set semantics: an existing pair is not an error.
				continue
			}
			if err != nil {
				failed = true
				logger.Error("service insert failed", "legacy_id", user.ID, "service", service, "error", err)
			}
		}
		if failed {
			stats.Errors++
		} else {
			stats.Migrated++
		}
	}

	logger.Info("services migrated", "total", stats.Total, "migrated", stats.Migrated,
		"skipped", stats.Skipped, "errors", stats.Errors)
	return stats
}

func (o *Orchestrator) migrateImages() Stats {
	var stats Stats

	images, err := o.source.GalleryImages()
	if err != nil {
		logger.Error("gallery read failed", "error", err)
		stats.Errors++
		return stats
	}
	stats.Total = len(images)

	for i := range images {
		image := &images[i]
		studio, err := o.target.StudioByOwner(mapper.UserID(o.opts.IDPrefix, image.UserID))
		if errors.Is(err, datastore.ErrNotFound) {
			stats.Skipped++
			continue
		}
		if err != nil {
			stats.Errors++
			logger.Error("studio lookup failed", "gallery_id", image.ID, "error", err)
			continue
		}
		err = o.target.CreateStudioImage(&datastore.StudioImage{
			ID:        mapper.ImageID(o.opts.IDPrefix, image.ID),
			StudioID:  studio.ID,
			URL:       image.URL,
			AltText:   image.Caption,
			SortOrder: image.DisplayOrder,
		})
		if err != nil {
			stats.Errors++
			logger.Error("image insert failed", "gallery_id", image.ID, "error", err)
			continue
		}
		stats.Migrated++
	}

	logger.Info("images migrated", "total", stats.Total, "migrated", stats.Migrated,
		"skipped", stats.Skipped, "errors", stats.Errors)
	return stats
}

func (o *Orchestrator) migrateConnections() Stats {
	var stats Stats

	contacts, err := o.source.AcceptedContacts()
	if err != nil {
		logger.Error("contacts read failed", "error", err)
		stats.Errors++
		return stats
	}
	stats.Total = len(contacts)

	for i := range contacts {
		contact := &contacts[i]
		userID := mapper.UserID(o.opts.IDPrefix, contact.UserID)
		contactID := mapper.UserID(o.opts.IDPrefix, contact.ContactID)

		if _, err := o.target.GetUser(userID); err != nil {
			stats.Skipped++
			continue
		}
		if _, err := o.target.GetUser(contactID); err != nil {
			stats.Skipped++
			continue
		}

		// One accepted legacy contact produces two directed rows.
		a := &datastore.UserConnection{UserID: userID, ConnectedUserID: contactID, Accepted: true, CreatedAt: contact.CreatedAt}
		b := &datastore.UserConnection{UserID: contactID, ConnectedUserID: userID, Accepted: true, CreatedAt: contact.CreatedAt}
		if err := o.target.CreateConnectionPair(a, b); err != nil {
			stats.Errors++
			logger.Error("connection insert failed", "contact_id", contact.ID, "error", err)
			continue
		}
		stats.Migrated++
	}

	logger.Info("connections migrated", "total", stats.Total, "migrated", stats.Migrated,
		"skipped", stats.Skipped, "errors", stats.Errors)
	return stats
}

func (o *Orchestrator) migrateReviews() Stats {
	var stats Stats

	reviews, err := o.source.Reviews()
	if err != nil {
		logger.Error("reviews read failed", "error", err)
		stats.Errors++
		return stats
	}
	stats.Total = len(reviews)

	for i := range reviews {
		review := &reviews[i]
		ownerID := mapper.UserID(o.opts.IDPrefix, review.OwnerID)
		reviewerID := mapper.UserID(o.opts.IDPrefix, review.AuthorID)

		if _, err := o.target.GetUser(reviewerID); err != nil {
			stats.Skipped++
			continue
		}
		studio, err := o.target.StudioByOwner(ownerID)
		if err != nil {
			stats.Skipped++
			continue
		}

		err = o.target.CreateReview(&datastore.Review{
			ID:         mapper.ReviewID(o.opts.IDPrefix, review.ID),
			StudioID:   studio.ID,
			OwnerID:    ownerID,
			ReviewerID: reviewerID,
			Rating:     review.Rating,
			Content:    review.Content,
			CreatedAt:  review.CreatedAt,
		})
		if err != nil {
			stats.Errors++
			logger.Error("review insert failed", "review_id", review.ID, "error", err)
			continue
		}
		stats.Migrated++
	}

	logger.Info("reviews migrated", "total", stats.Total, "migrated", stats.Migrated,
		"skipped", stats.Skipped, "errors", stats.Errors)
	return stats
}
