// Package conf handles loading and validation of the pipeline configuration.
package conf

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// DatabaseSettings selects and locates one relational store.
type DatabaseSettings struct {
	Type string // "sqlite" or "mysql"
	Path string // sqlite file path
	DSN  string // mysql DSN
}

// LogSettings controls file log rotation.
type LogSettings struct {
	Dir        string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
}

// MigrationSettings controls the legacy migration run.
type MigrationSettings struct {
	ClearTarget bool
	IDPrefix    string
}

// AuditSettings controls the profile audit run.
type AuditSettings struct {
	ExportDir string
}

// EnrichSettings controls the enrichment engine's outbound fetching.
type EnrichSettings struct {
	Timeout   time.Duration
	Delay     time.Duration
	UserAgent string
	Limit     int
}

// GeocodeSettings configures the geocoding client.
type GeocodeSettings struct {
	BaseURL  string
	Email    string
	CacheTTL time.Duration
}

// SentrySettings configures optional error telemetry.
type SentrySettings struct {
	Enabled bool
	DSN     string
}

// Settings is the root configuration for all pipeline commands.
type Settings struct {
	Debug     bool
	Log       LogSettings
	Legacy    DatabaseSettings
	Target    DatabaseSettings
	Migration MigrationSettings
	Audit     AuditSettings
	Enrich    EnrichSettings
	Geocode   GeocodeSettings
	Sentry    SentrySettings
}

// Load reads the configuration file (if any) and returns the settings with
// defaults applied. A missing config file is not an error; defaults are used.
func Load(configFile string) (*Settings, error) {
	if err := initViper(configFile); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	settings := &Settings{}
	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper(configFile string) error {
	setDefaults()

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.config/studiopipe")
		viper.AddConfigPath("/etc/studiopipe")
	}

	viper.SetEnvPrefix("studiopipe")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			// No config file, run on defaults
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

func validate(s *Settings) error {
	for name, db := range map[string]*DatabaseSettings{"legacy": &s.Legacy, "target": &s.Target} {
		switch db.Type {
		case "sqlite":
			if db.Path == "" {
				return fmt.Errorf("%s database: sqlite requires a path", name)
			}
		case "mysql":
			if db.DSN == "" {
				return fmt.Errorf("%s database: mysql requires a dsn", name)
			}
		default:
			return fmt.Errorf("%s database: unsupported type %q", name, db.Type)
		}
	}
	return nil
}
