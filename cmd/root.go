package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mattduff36/vostudiofinder-sub004/cmd/audit"
	"github.com/mattduff36/vostudiofinder-sub004/cmd/enrich"
	"github.com/mattduff36/vostudiofinder-sub004/cmd/migrate"
	"github.com/mattduff36/vostudiofinder-sub004/internal/conf"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "studiopipe",
		Short: "Studio directory data pipeline CLI",
		Long:  `Migration, audit and enrichment tooling for the studio directory database.`,
	}

	setupFlags(rootCmd, settings)

	subcommands := []*cobra.Command{
		migrate.Command(settings),
		audit.Command(settings),
		enrich.Command(settings),
	}
	rootCmd.AddCommand(subcommands...)

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %v", err)
	}

	return nil
}
