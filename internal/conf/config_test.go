package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	t.Cleanup(viper.Reset)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "")

	settings, err := Load(path)
	require.NoError(t, err)

	assert.False(t, settings.Debug)
	assert.Equal(t, "sqlite", settings.Legacy.Type)
	assert.Equal(t, "legacy.db", settings.Legacy.Path)
	assert.Equal(t, "vostudiofinder.db", settings.Target.Path)
	assert.True(t, settings.Migration.ClearTarget)
	assert.Equal(t, "legacy-", settings.Migration.IDPrefix)
	assert.Equal(t, "exports", settings.Audit.ExportDir)
	assert.Equal(t, 15*time.Second, settings.Enrich.Timeout)
	assert.Equal(t, time.Second, settings.Enrich.Delay)
	assert.Equal(t, "https://nominatim.openstreetmap.org", settings.Geocode.BaseURL)
	assert.Equal(t, 24*time.Hour, settings.Geocode.CacheTTL)
	assert.False(t, settings.Sentry.Enabled)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
debug: true
legacy:
  type: mysql
  dsn: user:pass@tcp(localhost:3306)/legacy
target:
  path: target.db
enrich:
  delay: 2s
  limit: 25
`)

	settings, err := Load(path)
	require.NoError(t, err)

	assert.True(t, settings.Debug)
	assert.Equal(t, "mysql", settings.Legacy.Type)
	assert.Equal(t, "user:pass@tcp(localhost:3306)/legacy", settings.Legacy.DSN)
	assert.Equal(t, "target.db", settings.Target.Path)
	assert.Equal(t, 2*time.Second, settings.Enrich.Delay)
	assert.Equal(t, 25, settings.Enrich.Limit)
}

func TestLoadValidation(t *testing.T) {
	t.Run("sqlite requires a path", func(t *testing.T) {
		path := writeConfig(t, "target:\n  path: \"\"\n")
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("mysql requires a dsn", func(t *testing.T) {
		path := writeConfig(t, "legacy:\n  type: mysql\n")
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("unknown database type", func(t *testing.T) {
		path := writeConfig(t, "legacy:\n  type: mongodb\n")
		_, err := Load(path)
		assert.Error(t, err)
	})
}
