package audit

import (
	"github.com/spf13/cobra"

	"github.com/mattduff36/vostudiofinder-sub004/internal/audit"
	"github.com/mattduff36/vostudiofinder-sub004/internal/conf"
	"github.com/mattduff36/vostudiofinder-sub004/internal/datastore"
)

// Command creates the audit command, which classifies every account and
// exports the findings.
func Command(settings *conf.Settings) *cobra.Command {
	var dryRun, exportOnly bool

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Classify all accounts and export findings",
		Long: `Audit recomputes a classification for every account from current
database state, replaces the stored findings wholesale and exports them as
JSON and CSV.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := datastore.New(&settings.Target)
			if err != nil {
				return err
			}
			if err := store.Open(); err != nil {
				return err
			}
			defer store.Close()

			runner := audit.NewRunner(store, settings.Audit.ExportDir)
			return runner.Run(audit.RunOptions{
				DryRun:     dryRun,
				ExportOnly: exportOnly,
				Out:        cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Classify and report without writing findings or export files")
	cmd.Flags().BoolVar(&exportOnly, "export-only", false, "Export the stored findings without reclassifying")

	return cmd
}
