package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ACCOUNTDECK_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, BackendMemory, c.Store.Backend)
	require.Equal(t, ProviderGemini, c.LLM.Provider)
	require.Equal(t, "GEMINI_API_KEY", c.LLM.APIKeyEnv)
	require.Equal(t, 50, c.View.PageSize)
	require.Equal(t, 2024, c.View.CutoffYear)
	require.Equal(t, 2300, c.Seed.Count)
	require.Equal(t, "info", c.Log.Level)
}

func TestLoadFileAndEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("ACCOUNTDECK_CONFIG", path)
	require.NoError(t, os.WriteFile(path, []byte(`
[store]
backend = "sqlite"

[view]
page_size = 25
cutoff_year = 2030
`), 0o600))
	t.Setenv("ACCOUNTDECK_LLM_PROVIDER", "offline")

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, BackendSQLite, c.Store.Backend)
	require.Equal(t, 25, c.View.PageSize)
	require.Equal(t, 2030, c.View.CutoffYear)
	require.Equal(t, ProviderOffline, c.LLM.Provider)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ACCOUNTDECK_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("ACCOUNTDECK_STORE_BACKEND", "postgres")
	_, err := Load()
	require.ErrorContains(t, err, "store.backend")
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("ACCOUNTDECK_CONFIG", path)
	require.NoError(t, os.WriteFile(path, []byte("[store\nbackend="), 0o600))
	_, err := Load()
	require.Error(t, err)
}

func TestSaveRoundTripOmitsAPIKey(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	t.Setenv("ACCOUNTDECK_CONFIG", path)

	c, err := Load()
	require.NoError(t, err)
	c.Store.Backend = BackendSQLite
	c.View.PageSize = 10
	c.LLM.APIKey = "sk-secret"
	require.NoError(t, Save(c))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "sk-secret")

	got, err := Load()
	require.NoError(t, err)
	require.Equal(t, BackendSQLite, got.Store.Backend)
	require.Equal(t, 10, got.View.PageSize)
	require.Empty(t, got.LLM.APIKey)
}
