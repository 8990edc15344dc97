package main

import (
	"os"
	"path/filepath"
	"time"

	"blockday/internal/config"
	"blockday/internal/logging"
	"blockday/internal/storage"
)

// app bundles the pieces every subcommand needs: config, logger,
// timezone, and an open migrated store.
type app struct {
	cfg  *config.Config
	log  logging.Logger
	loc  *time.Location
	repo *storage.SQLiteRepository
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "blockday.yaml"
	}
	return filepath.Join(home, ".blockday", "config.yaml")
}

func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log := logging.New(os.Stderr, logging.ParseLevel(cfg.LogLevel))

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return nil, err
	}
	repo, err := storage.OpenSQLite(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	if err := storage.MigrateUp(repo.DB()); err != nil {
		_ = repo.Close()
		return nil, err
	}

	return &app{cfg: cfg, log: log, loc: loc, repo: repo}, nil
}

func (a *app) Close() {
	if a.repo != nil {
		_ = a.repo.Close()
	}
}
