package enrich

import (
	"github.com/spf13/cobra"

	"github.com/mattduff36/vostudiofinder-sub004/internal/conf"
	"github.com/mattduff36/vostudiofinder-sub004/internal/datastore"
	"github.com/mattduff36/vostudiofinder-sub004/internal/enrich"
	"github.com/mattduff36/vostudiofinder-sub004/internal/httpclient"
)

// Command creates the enrich command, which proposes profile improvements
// for audited accounts.
func Command(settings *conf.Settings) *cobra.Command {
	var (
		userID         string
		classification string
		dryRun         bool
		limit          int
	)

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Propose profile improvements from public sources",
		Long: `Enrich inspects the websites of audited accounts and records
field-level suggestions for an operator to review. Nothing is ever applied
automatically.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := datastore.New(&settings.Target)
			if err != nil {
				return err
			}
			if err := store.Open(); err != nil {
				return err
			}
			defer store.Close()

			client := httpclient.New(&httpclient.Config{
				DefaultTimeout: settings.Enrich.Timeout,
				UserAgent:      settings.Enrich.UserAgent,
			})
			defer client.Close()

			engine := enrich.NewEngine(store, client, settings.Enrich.Delay, settings.Enrich.Timeout)
			return engine.Run(cmd.Context(), enrich.Options{
				UserID:         userID,
				Classification: classification,
				DryRun:         dryRun,
				Limit:          limit,
				Out:            cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user-id", "", "Enrich a single user instead of the full finding set")
	cmd.Flags().StringVar(&classification, "classification", "", "Finding classification to enrich (default NEEDS_UPDATE)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report suggestions without storing them")
	cmd.Flags().IntVar(&limit, "limit", settings.Enrich.Limit, "Maximum number of records to process (0 = no limit)")

	return cmd
}
