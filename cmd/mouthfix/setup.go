package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mouthfix/internal/config"
	"github.com/vovakirdan/mouthfix/internal/leaderboard"
	"github.com/vovakirdan/mouthfix/internal/level"
	"github.com/vovakirdan/mouthfix/internal/progress"
	"github.com/vovakirdan/mouthfix/internal/storage"
)

// runtime is everything a command needs, built from config and flags.
type runtime struct {
	cfg    config.Config
	logger *log.Logger
	pack   *level.Pack
	db     *storage.Store
	store  *progress.Store
	board  leaderboard.Client
}

func newLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagDataDir != "" {
		cfg.Storage.DataDir = flagDataDir
	}
	if flagLevels != "" {
		cfg.Levels.Path = flagLevels
	}
	if flagLeaderboard != "" {
		cfg.Leaderboard.URL = flagLeaderboard
	}

	dir, err := storage.ExpandHome(cfg.Storage.DataDir)
	if err != nil {
		return cfg, fmt.Errorf("data dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return cfg, fmt.Errorf("data dir: %w", err)
	}
	cfg.Storage.DataDir = dir
	return cfg, nil
}

// setup opens config, levels, storage, the player profile and the
// leaderboard. Logs go to logOut.
func setup(logOut io.Writer) (*runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger(logOut, "mouthfix")

	pack, err := level.Load(cfg.Levels.Path)
	if err != nil {
		return nil, fmt.Errorf("load levels: %w", err)
	}

	db, err := storage.Open(cfg.Storage.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	backend, err := profileBackend(cfg, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	store := progress.NewStore(backend, pack.Count(), logger)
	store.Load()
	if store.Degraded() {
		logger.Warn("progress storage unavailable; playing without saving")
	}

	board, err := openLeaderboard(cfg, db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("ready", "levels", pack.Count(), "data", cfg.Storage.DataDir, "leaderboard", cfg.Leaderboard.URL)
	return &runtime{
		cfg:    cfg,
		logger: logger,
		pack:   pack,
		db:     db,
		store:  store,
		board:  board,
	}, nil
}

func profileBackend(cfg config.Config, db *storage.Store) (progress.Backend, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		return progress.NewSQLiteBackend(db, "local"), nil
	default:
		b, err := progress.NewFileBackend(cfg.Storage.ProfilePath())
		if err != nil {
			return nil, fmt.Errorf("profile: %w", err)
		}
		return b, nil
	}
}

// openLeaderboard returns the local board, or the remote one with a local
// fallback when a URL is configured.
func openLeaderboard(cfg config.Config, db *storage.Store, logger *log.Logger) (leaderboard.Client, error) {
	if cfg.Leaderboard.URL == "" {
		return leaderboard.NewLocalClient(db, logger), nil
	}
	remote, err := leaderboard.NewRemoteClient(cfg.Leaderboard.URL, cfg.Leaderboard.Timeout, logger)
	if err != nil {
		return nil, err
	}
	return leaderboard.NewFallbackClient(remote, logger), nil
}

func (r *runtime) Close() {
	if err := r.db.Close(); err != nil {
		r.logger.Warn("close database", "error", err)
	}
}

// mustSetup is setup for commands that print to the terminal.
func mustSetup() *runtime {
	rt, err := setup(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return rt
}
