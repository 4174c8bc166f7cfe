package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, StoreBolt, cfg.Store)
	assert.Equal(t, ".sealnote", cfg.DBPath)
	assert.Equal(t, "sealnote", cfg.MongoDatabase)
	assert.Equal(t, int64(4), cfg.MaxConcurrentKDF)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.WriteTimeout)
	assert.Equal(t, ":3000", cfg.ListenAddr())
}

func TestLoadFromOverrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"SEALNOTE_STORE":              "mongo",
		"MONGO_URI":                   "mongodb://db:27017",
		"SEALNOTE_MAX_CONCURRENT_KDF": "2",
		"SEALNOTE_LOG_FORMAT":         "json",
		"SEALNOTE_SHUTDOWN_TIMEOUT":   "3s",
		"PORT":                        "8080",
	})
	require.NoError(t, err)

	assert.Equal(t, StoreMongo, cfg.Store)
	assert.Equal(t, "mongodb://db:27017", cfg.MongoURI)
	assert.Equal(t, int64(2), cfg.MaxConcurrentKDF)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, ":8080", cfg.ListenAddr())
}

func TestListenAddrPrefersExplicitAddr(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"SEALNOTE_ADDR": "127.0.0.1:9000",
		"PORT":          "8080",
	})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddr())
}

func TestLoadFromInvalid(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
	}{
		{"unknown store", map[string]string{"SEALNOTE_STORE": "redis"}},
		{"mongo without uri", map[string]string{"SEALNOTE_STORE": "mongo"}},
		{"zero kdf slots", map[string]string{"SEALNOTE_MAX_CONCURRENT_KDF": "0"}},
		{"bad kdf slots", map[string]string{"SEALNOTE_MAX_CONCURRENT_KDF": "many"}},
		{"bad log format", map[string]string{"SEALNOTE_LOG_FORMAT": "xml"}},
		{"bad duration", map[string]string{"SEALNOTE_READ_TIMEOUT": "soon"}},
		{"zero body size", map[string]string{"SEALNOTE_MAX_BODY_BYTES": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.environ)
			assert.Error(t, err)
		})
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SEALNOTE_DB_PATH=from-dotenv.db\n"), 0600))
	t.Chdir(dir)
	t.Cleanup(func() { os.Unsetenv("SEALNOTE_DB_PATH") })

	// Variables already in the environment take precedence over .env
	t.Setenv("SEALNOTE_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadWithoutDotEnv(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load()
	assert.NoError(t, err)
}
