package adminpatch

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/mattduff36/vostudiofinder-sub004/internal/datastore"
	"github.com/mattduff36/vostudiofinder-sub004/internal/errors"
	"github.com/mattduff36/vostudiofinder-sub004/internal/geocode"
	"github.com/mattduff36/vostudiofinder-sub004/internal/logging"
)

// Package-level logger specific to the admin patch service.
var (
	logger      *slog.Logger
	closeLogger func() error
)

func init() {
	var err error
	logFilePath := filepath.Join(logging.Dir(), "adminpatch.log")
	logger, closeLogger, err = logging.NewFileLogger(logFilePath, "adminpatch", slog.LevelDebug)
	if err != nil {
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})
		logger = slog.New(fbHandler).With("service", "adminpatch")
		closeLogger = func() error { return nil }
	}
}

// Applier persists admin patches against the target store, running the
// uniqueness checks and the geocode reconciliation that raw column updates
// would skip.
type Applier struct {
	store    datastore.Interface
	geocoder geocode.Geocoder
}

// NewApplier creates an Applier. The geocoder may be nil, in which case
// address edits are stored without reconciliation.
func NewApplier(store datastore.Interface, geocoder geocode.Geocoder) *Applier {
	return &Applier{store: store, geocoder: geocoder}
}

// Apply persists one admin patch for the given user. Account fields update
// the user row; studio and profile fields update the owned studio row when
// one exists. Uniqueness conflicts surface as categorized errors so the
// caller can map them to distinct response codes.
func (a *Applier) Apply(ctx context.Context, userID string, patch Patch) error {
	user, err := a.store.GetUser(userID)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return errors.Newf("user %s not found", userID).
				Category(errors.CategoryNotFound).
				Component("adminpatch").
				Build()
		}
		return err
	}

	account := AccountUpdate(patch)
	if err := a.checkConflicts(user, account); err != nil {
		return err
	}
	if len(account) > 0 {
		if err := a.store.UpdateUser(userID, account); err != nil {
			return err
		}
		logger.Info("account updated", "user_id", userID, "fields", len(account))
	}

	studioSet := StudioUpdate(patch)
	profileSet := ProfileUpdate(patch)
	if len(studioSet) == 0 && len(profileSet) == 0 {
		return nil
	}

	studio, err := a.store.StudioByOwner(userID)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return errors.Newf("user %s has no studio to update", userID).
				Category(errors.CategoryNotFound).
				Component("adminpatch").
				Build()
		}
		return err
	}

	a.reconcileLocation(ctx, studio, patch, studioSet)

	for column, value := range profileSet {
		studioSet[column] = value
	}
	if err := a.store.UpdateStudio(studio.ID, studioSet); err != nil {
		return err
	}
	logger.Info("studio updated", "studio_id", studio.ID, "fields", len(studioSet))
	return nil
}

// checkConflicts verifies email and username uniqueness against other
// accounts before any write happens.
func (a *Applier) checkConflicts(user *datastore.User, account map[string]any) error {
	if email, ok := account["email"].(string); ok && !strings.EqualFold(email, user.Email) {
		other, err := a.store.UserByEmail(email)
		if err != nil && !errors.Is(err, datastore.ErrNotFound) {
			return err
		}
		if other != nil && other.ID != user.ID {
			return errors.Newf("email %s already in use", email).
				Category(errors.CategoryEmailInUse).
				Component("adminpatch").
				Build()
		}
	}
	if username, ok := account["username"].(string); ok && !strings.EqualFold(username, user.Username) {
		other, err := a.store.UserByUsernameFold(username)
		if err != nil && !errors.Is(err, datastore.ErrNotFound) {
			return err
		}
		if other != nil && other.ID != user.ID {
			return errors.Newf("username %s already taken", username).
				Category(errors.CategoryUsernameTaken).
				Component("adminpatch").
				Build()
		}
	}
	return nil
}

// reconcileLocation runs the geocode decision table for the patch and folds
// its outcome into the pending studio update.
func (a *Applier) reconcileLocation(ctx context.Context, studio *datastore.Studio, patch Patch, studioSet map[string]any) {
	if a.geocoder == nil {
		return
	}

	update := &geocode.Update{}
	if v, ok := studioSet["address"].(string); ok {
		update.Address = &v
	}
	if v, ok := studioSet["city"].(string); ok {
		update.City = &v
	}
	if v, ok := studioSet["country"].(string); ok {
		update.Country = &v
	}
	if v, ok := patch["latitude"].(float64); ok {
		update.Latitude = &v
		studioSet["latitude"] = v
	}
	if v, ok := patch["longitude"].(float64); ok {
		update.Longitude = &v
		studioSet["longitude"] = v
	}

	outcome := geocode.Reconcile(ctx, studio, update, a.geocoder)
	for column, value := range outcome.Set {
		studioSet[column] = value
	}
}
