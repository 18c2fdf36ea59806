// Package cli provides CLI commands using Bubble Tea TUI.
package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/neuralweb/neuralweb/internal/cli/styles"
	"github.com/neuralweb/neuralweb/internal/config"
	"github.com/neuralweb/neuralweb/internal/domain/build"
	"github.com/neuralweb/neuralweb/internal/domain/repository"
	"github.com/neuralweb/neuralweb/internal/infrastructure/persistence/sqlite"
	"github.com/neuralweb/neuralweb/internal/logging"
)

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	Theme     *styles.Theme
	BuildInfo build.Info

	History      repository.HistoryRepository
	SessionState repository.SessionStateRepository

	db  *sql.DB
	ctx context.Context
}

// NewApp creates a new CLI application with all dependencies.
func NewApp() (*App, error) {
	manager, err := config.NewManager()
	if err != nil {
		return nil, fmt.Errorf("create config manager: %w", err)
	}
	if err := manager.Load(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := manager.Get()

	theme := styles.NewTheme()

	logger := logging.NewFromConfigValues(cfg.Logging.Level, cfg.Logging.Format)
	ctx := logging.WithContext(context.Background(), logger)

	db, err := sqlite.NewConnection(ctx, cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return &App{
		Config:       cfg,
		Theme:        theme,
		History:      sqlite.NewHistoryRepository(db),
		SessionState: sqlite.NewSessionStateRepository(db),
		db:           db,
		ctx:          ctx,
	}, nil
}

// Ctx returns the application context carrying the logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// Close releases all resources.
func (a *App) Close() error {
	if a.db != nil {
		return sqlite.Close(a.db)
	}
	return nil
}
