package migrate

import (
	"github.com/spf13/cobra"

	"github.com/mattduff36/vostudiofinder-sub004/internal/conf"
	"github.com/mattduff36/vostudiofinder-sub004/internal/datastore"
	"github.com/mattduff36/vostudiofinder-sub004/internal/errors"
	"github.com/mattduff36/vostudiofinder-sub004/internal/legacy"
	"github.com/mattduff36/vostudiofinder-sub004/internal/migration"
)

// Command creates the migrate command, which copies the legacy database into
// the target schema stage by stage.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the legacy database into the target schema",
		Long: `Migrate runs the staged legacy import: users, studios, services,
images, connections and reviews, in dependency order. Per-record failures
are counted and reported; they do not abort the run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(cmd, settings)
		},
	}

	cmd.Flags().BoolVar(&settings.Migration.ClearTarget, "clear-target", settings.Migration.ClearTarget,
		"Delete previously migrated records before importing")

	return cmd
}

func runMigration(cmd *cobra.Command, settings *conf.Settings) error {
	source, err := legacy.Open(&settings.Legacy)
	if err != nil {
		return err
	}
	defer source.Close()

	target, err := datastore.New(&settings.Target)
	if err != nil {
		return err
	}
	if err := target.Open(); err != nil {
		return err
	}
	defer target.Close()

	orchestrator := migration.New(source, target, migration.Options{
		IDPrefix:    settings.Migration.IDPrefix,
		ClearTarget: settings.Migration.ClearTarget,
		Out:         cmd.OutOrStdout(),
	})

	report, err := orchestrator.Run()
	if err != nil {
		return err
	}
	if !report.Success() {
		return errors.Newf("migration finished with %d errors", report.TotalErrors()).
			Category(errors.CategoryMigration).
			Component("migrate").
			Build()
	}
	return nil
}
