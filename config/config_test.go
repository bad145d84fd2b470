package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 80, cfg.Port)
	assert.Equal(t, "qforms.sqlite", cfg.DBUrl)
	assert.Equal(t, 2*time.Minute, cfg.TTL())
	assert.Equal(t, "http://localhost:80", cfg.Url())

	// no secret configured
	assert.Error(t, cfg.Validate())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qforms.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"host": "127.0.0.1",
		"port": 8080,
		"token_secret": "from-file",
		"debug": true
	}`), 0o600))
	t.Setenv("QFORMS_TOKEN_SECRET", "from-env")
	t.Setenv("QFORMS_DB_URL", "/tmp/forms.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.Addr())
	assert.Equal(t, "from-env", cfg.TokenSecret)
	assert.Equal(t, "/tmp/forms.db", cfg.DBUrl)
	assert.True(t, cfg.Debug)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestValidate_Ranges(t *testing.T) {
	cfg := Config{Host: "localhost", Port: 70000, DBUrl: "x", TokenSecret: "s", TokenTTL: 60}
	assert.Error(t, cfg.Validate())
	cfg.Port = 8080
	assert.NoError(t, cfg.Validate())
	cfg.TokenTTL = 0
	assert.Error(t, cfg.Validate())
}
