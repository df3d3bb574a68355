package main

import (
	"fmt"
	"os"

	"github.com/mattduff36/vostudiofinder-sub004/cmd"
	"github.com/mattduff36/vostudiofinder-sub004/internal/conf"
	"github.com/mattduff36/vostudiofinder-sub004/internal/logging"
	"github.com/mattduff36/vostudiofinder-sub004/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configFile := os.Getenv("STUDIOPIPE_CONFIG")

	settings, err := conf.Load(configFile)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	logging.SetConfig(logging.Config{
		Dir:        settings.Log.Dir,
		MaxSizeMB:  settings.Log.MaxSize,
		MaxBackups: settings.Log.MaxBackups,
		MaxAgeDays: settings.Log.MaxAge,
	})
	logging.Init(settings.Debug)

	if err := telemetry.Init(settings.Sentry.Enabled, settings.Sentry.DSN); err != nil {
		return err
	}
	defer telemetry.Flush()

	rootCmd := cmd.RootCommand(settings)
	return rootCmd.Execute()
}
