package database

import (
	"fmt"
	"log/slog" // use slog for structured logging
	"strings"
	"time"

	"recipehub/internal/config"
	"recipehub/internal/microservices/http-api/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Connect opens the store named by cfg.DatabaseURL, checks it answers and
// brings the schema up to date. postgres:// URLs use PostgreSQL; file: and
// *.db paths use SQLite for local development.
func Connect(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	level := gormLogger.Warn
	if cfg.IsDevelopment() && cfg.LogLevel == "debug" {
		level = gormLogger.Info
	}

	db, err := gorm.Open(dialector(cfg.DatabaseURL), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	if isSQLite(cfg.DatabaseURL) {
		// SQLite allows one writer; a single connection avoids "database is locked"
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	// Verify the connection
	if err := sqlDB.Ping(); err != nil {
		// close the db handle if ping fails to avoid resource leak
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		sqlDB.Close()
		return nil, err
	}

	logger.Info("database_connected", "driver", db.Dialector.Name())
	return db, nil
}

// Migrate creates or alters every table the API uses.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Close releases the pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func dialector(url string) gorm.Dialector {
	if isSQLite(url) {
		return sqlite.Open(url)
	}
	return postgres.Open(url)
}

func isSQLite(url string) bool {
	return strings.HasPrefix(url, "file:") || strings.HasSuffix(url, ".db") || url == ":memory:"
}
