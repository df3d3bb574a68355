package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/mattduff36/vostudiofinder-sub004/internal/datastore"
	"github.com/mattduff36/vostudiofinder-sub004/internal/errors"
	"github.com/mattduff36/vostudiofinder-sub004/internal/logging"
)

// Package-level logger specific to the audit service.
var (
	logger      *slog.Logger
	closeLogger func() error
)

func init() {
	var err error
	logFilePath := filepath.Join(logging.Dir(), "audit.log")
	logger, closeLogger, err = logging.NewFileLogger(logFilePath, "audit", slog.LevelDebug)
	if err != nil {
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})
		logger = slog.New(fbHandler).With("service", "audit")
		closeLogger = func() error { return nil }
	}
}

// RunOptions control one audit invocation.
type RunOptions struct {
	DryRun     bool // skip all datastore writes and file exports
	ExportOnly bool // skip recomputation, export existing findings
	Out        io.Writer
}

// Runner recomputes findings for every account and exports them.
type Runner struct {
	store     datastore.Interface
	policy    Policy
	exportDir string
	now       func() time.Time
}

// NewRunner creates a Runner over an opened target store.
func NewRunner(store datastore.Interface, exportDir string) *Runner {
	return &Runner{
		store:     store,
		policy:    DefaultPolicy(),
		exportDir: exportDir,
		now:       time.Now,
	}
}

// Run performs the audit. Findings are recomputed for every user and replace
// the previous set wholesale; they are a derived view, never merged.
func (r *Runner) Run(opts RunOptions) error {
	if opts.ExportOnly {
		findings, err := r.store.ListFindings()
		if err != nil {
			return err
		}
		return r.export(findings, opts)
	}

	users, err := r.store.ListUsers()
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	logger.Info("audit run started", "run_id", runID, "users", len(users))

	findings := make([]datastore.AuditFinding, 0, len(users))
	byClass := make(map[Classification]int)

	for i := range users {
		finding, err := r.auditUser(&users[i])
		if err != nil {
			logger.Error("audit failed for user", "user_id", users[i].ID, "error", err)
			continue
		}
		byClass[Classification(finding.Classification)]++
		findings = append(findings, *finding)
	}

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Audited %d accounts:\n", len(findings))
		for _, c := range []Classification{Healthy, Junk, NotAdvertising, NeedsUpdate, Exception} {
			fmt.Fprintf(opts.Out, "  %-16s %d\n", c, byClass[c])
		}
	}

	if opts.DryRun {
		logger.Info("dry run, skipping persistence and export", "run_id", runID)
		return nil
	}

	if err := r.store.ReplaceFindings(runID, findings); err != nil {
		return err
	}
	logger.Info("findings replaced", "run_id", runID, "count", len(findings))

	return r.export(findings, opts)
}

// auditUser joins one user with its studio and activity signals and runs the
// classification.
func (r *Runner) auditUser(user *datastore.User) (*datastore.AuditFinding, error) {
	in := Input{
		User:   *user,
		Now:    r.now(),
		Policy: r.policy,
	}

	studio, err := r.store.StudioByOwner(user.ID)
	switch {
	case err == nil:
		in.Studio = studio
	case errors.Is(err, datastore.ErrNotFound):
		// no studio profile is a valid state, the rules handle it
	default:
		return nil, err
	}

	if in.Activity, err = r.store.ActivityCounts(user.ID); err != nil {
		return nil, err
	}
	if in.HasSubscription, err = r.store.HasActiveSubscription(user.ID); err != nil {
		return nil, err
	}
	if in.ConnectionCount, err = r.store.ConnectionCountForUser(user.ID); err != nil {
		return nil, err
	}
	if in.Studio != nil {
		services, err := r.store.ServicesForStudio(in.Studio.ID)
		if err != nil {
			return nil, err
		}
		in.ServiceCount = len(services)
		images, err := r.store.ImagesForStudio(in.Studio.ID)
		if err != nil {
			return nil, err
		}
		in.ImageCount = len(images)
	}

	result := Classify(&in)

	reasonsJSON, err := json.Marshal(result.Reasons)
	if err != nil {
		return nil, err
	}
	metadataJSON, err := json.Marshal(result.Metadata)
	if err != nil {
		return nil, err
	}

	return &datastore.AuditFinding{
		UserID:            user.ID,
		Email:             user.Email,
		Username:          user.Username,
		Classification:    string(result.Classification),
		ReasonsJSON:       string(reasonsJSON),
		CompletenessScore: result.CompletenessScore,
		RecommendedAction: result.RecommendedAction,
		MetadataJSON:      string(metadataJSON),
		CreatedAt:         r.now(),
	}, nil
}
