package migration

import "fmt"

// Stats is the per-stage migration outcome. Skipped records failed a
// precondition (for example a missing owner) and are not errors; Errors
// counts unexpected per-record failures.
type Stats struct {
	Total    int
	Migrated int
	Skipped  int
	Errors   int
}

// Stage names, in execution order.
const (
	StageUsers       = "users"
	StageStudios     = "studios"
	StageServices    = "studio_services"
	StageImages      = "studio_images"
	StageConnections = "user_connections"
	StageReviews     = "reviews"
)

// stageOrder preserves reporting order; map iteration would scramble it.
var stageOrder = []string{
	StageUsers,
	StageStudios,
	StageServices,
	StageImages,
	StageConnections,
	StageReviews,
}

// Report aggregates every stage of one migration run.
type Report struct {
	Stages map[string]Stats
}

// NewReport returns an empty report with all stages present.
func NewReport() *Report {
	stages := make(map[string]Stats, len(stageOrder))
	for _, name := range stageOrder {
		stages[name] = Stats{}
	}
	return &Report{Stages: stages}
}

// TotalErrors sums the error counts across every stage.
func (r *Report) TotalErrors() int {
	total := 0
	for _, s := range r.Stages {
		total += s.Errors
	}
	return total
}

// Success reports whether the run completed with zero errors. Skipped
// records do not affect success.
func (r *Report) Success() bool {
	return r.TotalErrors() == 0
}

// Summary renders the per-stage table printed at the end of a run.
func (r *Report) Summary() string {
	out := "Migration summary:\n"
	out += fmt.Sprintf("  %-18s %8s %10s %9s %8s\n", "stage", "total", "migrated", "skipped", "errors")
	for _, name := range stageOrder {
		s := r.Stages[name]
		out += fmt.Sprintf("  %-18s %8d %10d %9d %8d\n", name, s.Total, s.Migrated, s.Skipped, s.Errors)
	}
	if r.Success() {
		out += "Result: success\n"
	} else {
		out += fmt.Sprintf("Result: completed with %d errors\n", r.TotalErrors())
	}
	return out
}
