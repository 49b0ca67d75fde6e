package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/accountdeck/internal/config"
	"github.com/jask/accountdeck/internal/dashboard"
	"github.com/jask/accountdeck/internal/database"
	"github.com/jask/accountdeck/internal/database/repository"
	"github.com/jask/accountdeck/internal/llm"
	"github.com/jask/accountdeck/internal/logging"
	"github.com/jask/accountdeck/internal/query"
	"github.com/jask/accountdeck/internal/secrets"
	"github.com/jask/accountdeck/internal/service"
	"github.com/jask/accountdeck/internal/testdata"
	"github.com/jask/accountdeck/internal/tui"
)

var (
	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "accountdeck",
	Short:         "Browse, filter and bulk-edit account records",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
		if logger, err = logging.New(cfg.Log.Level, cfg.Log.File); err != nil {
			return fmt.Errorf("logger: %w", err)
		}
		logger.Debug("starting", zap.String("command", cmd.Name()), zap.String("backend", cfg.Store.Backend))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runTUI,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// accountStore is what every backend provides.
type accountStore interface {
	dashboard.Store
	service.ImportStore
}

// backend is an opened record store. db is nil for the memory backend.
type backend struct {
	store accountStore
	db    *sql.DB
}

func (b *backend) Close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}

func openBackend(ctx context.Context) (*backend, error) {
	switch cfg.Store.Backend {
	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir db dir: %w", err)
		}
		db, err := database.Open(cfg.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		if err := database.RunMigrationsWithDB(db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return &backend{store: repository.NewAccountRepo(db), db: db}, nil
	default:
		seed := testdata.Generate(cfg.Seed.Count, nil, database.Now())
		logger.Info("memory store seeded", zap.Int("accounts", len(seed)))
		return &backend{store: repository.NewMemoryStore(seed...)}, nil
	}
}

func requireSQLite() error {
	if cfg.Store.Backend != config.BackendSQLite {
		return errors.New("this command needs store.backend = \"sqlite\"; the memory store is rebuilt on every start")
	}
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	b, err := openBackend(ctx)
	if err != nil {
		return err
	}
	defer b.Close()

	ctrl, err := dashboard.NewController(ctx, b.store, dashboard.Options{
		PageSize: cfg.View.PageSize,
		Periods:  query.PeriodsFor(cfg.View.CutoffYear),
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	services := tui.Services{
		Auditor: &service.Auditor{Analyzer: newAnalyzer(), Log: logger},
		Ingest:  &service.IngestService{Store: b.store, Log: logger},
	}
	p := tea.NewProgram(tui.New(ctx, ctrl, services, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func newAnalyzer() llm.Analyzer {
	if cfg.LLM.Provider == config.ProviderOffline {
		return llm.NewOfflineProvider()
	}
	return llm.NewGeminiProvider(resolveAPIKey(), cfg.LLM.Model)
}

// resolveAPIKey checks the configured env var, then the key store, then the
// config file.
func resolveAPIKey() string {
	provider := strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	env := strings.TrimSpace(cfg.LLM.APIKeyEnv)
	if env == "" {
		env = "GEMINI_API_KEY"
	}
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		return v
	}
	if store, err := secrets.Default(); err == nil {
		if k, err := store.Get(provider); err == nil {
			return k
		} else if !errors.Is(err, secrets.ErrNotFound) {
			logger.Warn("key store unreadable", zap.Error(err))
		}
	}
	return strings.TrimSpace(cfg.LLM.APIKey)
}
