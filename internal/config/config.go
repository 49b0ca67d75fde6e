package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/jask/accountdeck/internal/logging"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Analysis providers.
const (
	ProviderGemini  = "gemini"
	ProviderOffline = "offline"
)

// Config holds application configuration.
type Config struct {
	Store    StoreConfig
	Database DatabaseConfig
	LLM      LLMConfig
	View     ViewConfig
	Seed     SeedConfig
	Log      LogConfig
}

// StoreConfig selects where accounts live.
type StoreConfig struct {
	Backend string
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// LLMConfig holds provider settings.
type LLMConfig struct {
	Provider  string
	APIKeyEnv string `mapstructure:"api_key_env"`
	APIKey    string `mapstructure:"api_key"`
	Model     string
}

// ViewConfig holds table settings.
type ViewConfig struct {
	PageSize   int `mapstructure:"page_size"`
	CutoffYear int `mapstructure:"cutoff_year"`
}

// SeedConfig controls the demo collection.
type SeedConfig struct {
	Count int
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string
	File  string
}

// Path returns the config file location. ACCOUNTDECK_CONFIG overrides it.
func Path() string {
	if p := os.Getenv("ACCOUNTDECK_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "accountdeck", "config.toml")
}

func setDefaults(v *viper.Viper) {
	home := os.Getenv("HOME")
	v.SetDefault("store.backend", BackendMemory)
	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "accountdeck", "accountdeck.db"))
	v.SetDefault("llm.provider", ProviderGemini)
	v.SetDefault("llm.api_key_env", "GEMINI_API_KEY")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "gemini-2.5-flash")
	v.SetDefault("view.page_size", 50)
	v.SetDefault("view.cutoff_year", 2024)
	v.SetDefault("seed.count", 2300)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", logging.DefaultFile())
}

// Load reads configuration from file and env. Env var overrides use prefix
// ACCOUNTDECK_, with dots replaced by underscores (ACCOUNTDECK_VIEW_PAGE_SIZE).
// A missing config file is not an error; a malformed one is.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("toml")

	v.SetEnvPrefix("ACCOUNTDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := Path()
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, c.Validate()
}

// Validate rejects settings that no component can act on.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendSQLite:
	default:
		return fmt.Errorf("store.backend %q: want %s or %s", c.Store.Backend, BackendMemory, BackendSQLite)
	}
	switch c.LLM.Provider {
	case ProviderGemini, ProviderOffline:
	default:
		return fmt.Errorf("llm.provider %q: want %s or %s", c.LLM.Provider, ProviderGemini, ProviderOffline)
	}
	if c.View.PageSize <= 0 {
		return fmt.Errorf("view.page_size must be positive, got %d", c.View.PageSize)
	}
	return nil
}

// Save writes the provided config to disk, creating the config directory if
// needed. The API key is never written; use env vars or the key store.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("store.backend", cfg.Store.Backend)
	v.Set("database.path", cfg.Database.Path)
	v.Set("llm.provider", cfg.LLM.Provider)
	v.Set("llm.api_key_env", cfg.LLM.APIKeyEnv)
	v.Set("llm.model", cfg.LLM.Model)
	v.Set("view.page_size", cfg.View.PageSize)
	v.Set("view.cutoff_year", cfg.View.CutoffYear)
	v.Set("seed.count", cfg.Seed.Count)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
