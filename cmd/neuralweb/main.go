package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/neuralweb/neuralweb/internal/application/usecase"
	"github.com/neuralweb/neuralweb/internal/cli/cmd"
	"github.com/neuralweb/neuralweb/internal/config"
	"github.com/neuralweb/neuralweb/internal/domain/build"
	"github.com/neuralweb/neuralweb/internal/domain/entity"
	"github.com/neuralweb/neuralweb/internal/infrastructure/persistence/sqlite"
	"github.com/neuralweb/neuralweb/internal/infrastructure/snapshot"
	"github.com/neuralweb/neuralweb/internal/infrastructure/surface"
	"github.com/neuralweb/neuralweb/internal/logging"
	"github.com/neuralweb/neuralweb/internal/shell"
)

// Build-time variables (set via ldflags).
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// initialURL holds the URL to open on startup (from browse command).
var initialURL string

func main() {
	// Run shell mode for browse command
	if len(os.Args) > 1 && os.Args[1] == "browse" {
		if len(os.Args) > 2 {
			initialURL = os.Args[2]
		}
		os.Exit(runShell())
		return
	}

	cmd.SetBuildInfo(build.Info{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
	})

	// Default: run CLI (shows help if no subcommand)
	cmd.Execute()
}

func runShell() int {
	manager, err := config.NewManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize configuration: %v\n", err)
		return 1
	}
	if err := manager.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	cfg := manager.Get()

	logger := logging.NewFromConfigValues(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info().
		Str("version", version).
		Str("commit", commit).
		Str("build_date", buildDate).
		Msg("starting neuralweb")
	ctx := logging.WithContext(context.Background(), logger)

	db, err := sqlite.NewConnection(ctx, cfg.Database.Path)
	if err != nil {
		logger.Error().Err(err).Msg("failed to open database")
		return 1
	}
	defer func() { _ = sqlite.Close(db) }()

	historyRepo := sqlite.NewHistoryRepository(db)
	stateRepo := sqlite.NewSessionStateRepository(db)

	sink := snapshot.NewService(stateRepo, cfg.Session.SnapshotIntervalMs)
	sink.Start(ctx)

	visitsUC := usecase.NewRecordVisitUseCase(historyRepo)
	visitsUC.SetRevisitWindow(time.Duration(cfg.History.RevisitWindowMs) * time.Millisecond)
	snapshotUC := usecase.NewSnapshotSessionUseCase(sink)
	restoreUC := usecase.NewRestoreSessionUseCase(stateRepo)

	engine := surface.NewEngine(logger,
		surface.WithLoadDelay(time.Duration(cfg.Surface.LoadDelayMs)*time.Millisecond))
	window := surface.NewWindow(logger, entity.Rect{
		W: cfg.Window.Width,
		H: cfg.Window.Height,
	})

	const windowID = entity.WindowID("main")
	coordinator := shell.New(shell.Options{
		WindowID:   windowID,
		Window:     window,
		Surfaces:   engine,
		Visits:     visitsUC,
		SnapshotUC: snapshotUC,
		Settings:   config.NewSettings(manager),
		ChromeBand: cfg.Window.ChromeBandHeight,
		Logger:     logger,
	})

	// Reposition content surfaces when the window geometry key changes.
	manager.OnConfigChange(func(updated *config.Config) {
		window.SetBounds(entity.Rect{W: updated.Window.Width, H: updated.Window.Height})
		coordinator.RepositionSurfaces()
	})
	if err := manager.Watch(); err != nil {
		logger.Warn().Err(err).Msg("config watch unavailable")
	}

	restored := false
	if cfg.Session.AutoRestore && initialURL == "" {
		out, restoreErr := restoreUC.Execute(ctx, windowID)
		if restoreErr != nil {
			logger.Warn().Err(restoreErr).Msg("session restore failed")
		} else if out != nil && out.Tabs.Count() > 0 {
			coordinator.Restore(out)
			restored = true
			logger.Info().Int("tabs", out.Tabs.Count()).Msg("session restored")
		}
	}
	if !restored {
		target := initialURL
		if target == "" {
			target = cfg.Homepage
		}
		if _, createErr := coordinator.CreateTab(target, nil); createErr != nil {
			logger.Error().Err(createErr).Msg("failed to open initial tab")
			return 1
		}
	}

	waitForSignal(ctx)

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := coordinator.Flush(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("final session snapshot failed")
	}
	if err := sink.Stop(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("snapshot service stop failed")
	}

	logger.Info().Msg("neuralweb stopped")
	return 0
}

func waitForSignal(ctx context.Context) {
	log := logging.FromContext(ctx)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	signal.Stop(sigCh)
	log.Info().Str("signal", sig.String()).Msg("received interrupt, shutting down")
}
