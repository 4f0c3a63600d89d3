package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "black-circles.db", cfg.DBPath)
	assert.Equal(t, ":8090", cfg.Addr)
	assert.Equal(t, "USD", cfg.Currency)
	assert.Empty(t, cfg.Discogs.Token)
}

func TestLoadFile(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("config.toml", []byte(`
db_path = "/tmp/records.db"
currency = "EUR"

[discogs]
token = "file-token"
username = "digger"
`), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/records.db", cfg.DBPath)
	assert.Equal(t, "EUR", cfg.Currency)
	assert.Equal(t, ":8090", cfg.Addr) // still the default
	assert.Equal(t, "file-token", cfg.Discogs.Token)
	assert.Equal(t, "digger", cfg.Discogs.Username)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("config.toml", []byte(`
[discogs]
token = "file-token"
`), 0o644))
	t.Setenv("BLACKCIRCLES_DISCOGS_TOKEN", "env-token")
	t.Setenv("BLACKCIRCLES_HUGGINGFACE_TOKEN", "hf-token")
	t.Setenv("BLACKCIRCLES_ADDR", ":9000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Discogs.Token)
	assert.Equal(t, "hf-token", cfg.HuggingFace.Token)
	assert.Equal(t, ":9000", cfg.Addr)
}

func TestEnvToPath(t *testing.T) {
	assert.Equal(t, "discogs.token", envToPath("BLACKCIRCLES_DISCOGS_TOKEN"))
	assert.Equal(t, "huggingface.token", envToPath("BLACKCIRCLES_HUGGINGFACE_TOKEN"))
	assert.Equal(t, "db_path", envToPath("BLACKCIRCLES_DB_PATH"))
	assert.Equal(t, "addr", envToPath("BLACKCIRCLES_ADDR"))
}
