package conf

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults registers every configuration key with its default value.
// Threshold-like values here are historical and must not be changed casually;
// audit exports and tests depend on them.
func setDefaults() {
	viper.SetDefault("debug", false)

	viper.SetDefault("log.dir", "logs")
	viper.SetDefault("log.maxsize", 100)
	viper.SetDefault("log.maxbackups", 3)
	viper.SetDefault("log.maxage", 28)

	viper.SetDefault("legacy.type", "sqlite")
	viper.SetDefault("legacy.path", "legacy.db")
	viper.SetDefault("legacy.dsn", "")

	viper.SetDefault("target.type", "sqlite")
	viper.SetDefault("target.path", "vostudiofinder.db")
	viper.SetDefault("target.dsn", "")

	viper.SetDefault("migration.cleartarget", true)
	viper.SetDefault("migration.idprefix", "legacy-")

	viper.SetDefault("audit.exportdir", "exports")

	viper.SetDefault("enrich.timeout", 15*time.Second)
	viper.SetDefault("enrich.delay", time.Second)
	viper.SetDefault("enrich.useragent", "VOStudioFinder-Pipeline/1.0")
	viper.SetDefault("enrich.limit", 0)

	viper.SetDefault("geocode.baseurl", "https://nominatim.openstreetmap.org")
	viper.SetDefault("geocode.email", "")
	viper.SetDefault("geocode.cachettl", 24*time.Hour)

	viper.SetDefault("sentry.enabled", false)
	viper.SetDefault("sentry.dsn", "")
}
