package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReportSuccess(t *testing.T) {
	report := NewReport()
	assert.True(t, report.Success())

	report.Stages[StageUsers] = Stats{Total: 10, Migrated: 8, Skipped: 2}
	assert.True(t, report.Success(), "skips do not fail a run")

	report.Stages[StageReviews] = Stats{Total: 3, Migrated: 2, Errors: 1}
	assert.False(t, report.Success())
	assert.Equal(t, 1, report.TotalErrors())
}

func TestReportSummary(t *testing.T) {
	report := NewReport()
	report.Stages[StageUsers] = Stats{Total: 2, Migrated: 2}

	summary := report.Summary()
	assert.Contains(t, summary, "Migration summary:")
	assert.Contains(t, summary, StageUsers)
	assert.Contains(t, summary, "Result: success")

	report.Stages[StageStudios] = Stats{Errors: 2}
	assert.Contains(t, report.Summary(), "Result: completed with 2 errors")
}
