package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef-test"

func TestLoadDefaultsNeedSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWTSecret")
}

func TestDefaultCORSOriginIsTheSite(t *testing.T) {
	d := Defaults()
	assert.Equal(t, []string{d.Server.SiteURL}, d.Server.CORSOrigins)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("PORT", ":9090")
	t.Setenv("CORS_ORIGINS", "https://a.test,https://b.test")
	t.Setenv("VIEW_FLUSH_INTERVAL", "5s")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("COOKIE_SECURE", "false")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, ":9090", cfg.Server.Addr())
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 5*time.Second, cfg.Redis.FlushInterval)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.False(t, cfg.Auth.CookieSecure)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "local", cfg.Storage.Backend)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
  format: console
mongo:
  database: recipes_test
storage:
  backend: s3
  s3_bucket: dishes
  s3_region: eu-west-1
`), 0o600))
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("MONGODB_DATABASE", "from_env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "from_env", cfg.Mongo.Database)
	assert.Equal(t, "dishes", cfg.Storage.S3Bucket)
}

func TestLoadRejectsIncompleteS3(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("STORAGE_BACKEND", "s3")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S3Bucket")
}

func TestLoadRejectsUnknownLogLevel(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("LOG_LEVEL", "loud")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
