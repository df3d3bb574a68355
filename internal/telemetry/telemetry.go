// Package telemetry wires optional Sentry error reporting into the errors package.
package telemetry

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/mattduff36/vostudiofinder-sub004/internal/errors"
)

type sentryReporter struct{}

// ReportError forwards an enhanced error to Sentry with its category,
// component and context attached as tags and extras.
func (sentryReporter) ReportError(err *errors.EnhancedError) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("category", string(err.Category))
		scope.SetTag("component", err.GetComponent())
		for k, v := range err.GetContext() {
			scope.SetExtra(k, fmt.Sprintf("%v", v))
		}
		sentry.CaptureException(err.Err)
	})
}

// Init initializes Sentry and installs the reporter. A disabled or empty DSN
// leaves error reporting off; the pipeline works identically either way.
func Init(enabled bool, dsn string) error {
	if !enabled || dsn == "" {
		return nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		AttachStacktrace: true,
	}); err != nil {
		return fmt.Errorf("initializing sentry: %w", err)
	}
	errors.SetReporter(sentryReporter{})
	slog.Debug("sentry telemetry enabled")
	return nil
}

// Flush drains pending events before process exit.
func Flush() {
	sentry.Flush(2 * time.Second)
}
