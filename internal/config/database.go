package config

import (
	"errors"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNoDatabase is returned by NewDatabase when DATABASE_URL is empty.
var ErrNoDatabase = errors.New("DATABASE_URL is not set")

func NewDatabase(cfg *Config) (*gorm.DB, error) {
	if !cfg.RemoteSyncEnabled() {
		return nil, ErrNoDatabase
	}

	logLevel := logger.Silent
	if cfg.LogLevel == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	slog.Info("database connection established", "component", "config")
	return db, nil
}
