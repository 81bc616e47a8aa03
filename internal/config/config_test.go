package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithSecretFromEnv(t *testing.T) {
	t.Setenv("ELEV8_AUTH_SECRET", "test-secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "elev8-api", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "8080", cfg.App.RESTPort)
	assert.Equal(t, "8081", cfg.App.WSPort)
	assert.Equal(t, "test-secret", cfg.Auth.Secret)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFailsWithoutAuthSecret(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadFromFileWithEnvExpansion(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "s3cret")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
app:
  environment: production
  log_level: warn
database:
  dsn: postgres://elev8:${TEST_DB_PASSWORD}@db:5432/elev8?sslmode=disable
auth:
  secret: file-secret
  admin_emails:
    - admin@elev8.test
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "warn", cfg.App.LogLevel)
	assert.Contains(t, cfg.Database.DSN, "s3cret")
	assert.Equal(t, "file-secret", cfg.Auth.Secret)
	assert.Equal(t, []string{"admin@elev8.test"}, cfg.Auth.AdminEmails)
}

func TestLoadRejectsInvalidEnvironment(t *testing.T) {
	t.Setenv("ELEV8_AUTH_SECRET", "test-secret")
	t.Setenv("ELEV8_APP_ENVIRONMENT", "space")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
