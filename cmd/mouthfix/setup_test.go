package main

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mouthfix/internal/config"
	"github.com/vovakirdan/mouthfix/internal/leaderboard"
	"github.com/vovakirdan/mouthfix/internal/progress"
	"github.com/vovakirdan/mouthfix/internal/storage"
)

func openDB(t *testing.T) *storage.Store {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "mouthfix.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestProfileBackend(t *testing.T) {
	db := openDB(t)
	cfg := config.Default()
	cfg.Storage.DataDir = t.TempDir()

	cfg.Storage.Backend = config.BackendFile
	b, err := profileBackend(cfg, db)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := b.(*progress.FileBackend); !ok {
		t.Errorf("file backend = %T", b)
	}

	cfg.Storage.Backend = config.BackendSQLite
	b, err = profileBackend(cfg, db)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := b.(*progress.SQLiteBackend); !ok {
		t.Errorf("sqlite backend = %T", b)
	}
}

func TestOpenLeaderboard(t *testing.T) {
	db := openDB(t)
	logger := log.New(io.Discard)
	cfg := config.Default()

	c, err := openLeaderboard(cfg, db, logger)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*leaderboard.LocalClient); !ok {
		t.Errorf("no URL gave %T, want local", c)
	}

	cfg.Leaderboard.URL = "http://127.0.0.1:1"
	cfg.Leaderboard.Timeout = time.Second
	c, err = openLeaderboard(cfg, db, logger)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*leaderboard.FallbackClient); !ok {
		t.Errorf("URL gave %T, want fallback", c)
	}

	cfg.Leaderboard.URL = "ftp://scores"
	if _, err := openLeaderboard(cfg, db, logger); err == nil {
		t.Error("ftp URL accepted")
	}
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	flagDataDir, flagLevels, flagLeaderboard = dir, "pack.yaml", "http://example.com"
	t.Cleanup(func() {
		flagDataDir, flagLevels, flagLeaderboard = "", "", ""
	})

	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.DataDir != dir || cfg.Levels.Path != "pack.yaml" || cfg.Leaderboard.URL != "http://example.com" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}
