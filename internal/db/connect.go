package db

import (
	"fmt"
	"log/slog"
	"strings"

	"module/blogwithusers/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectDB opens Postgres for postgres:// URLs and a sqlite file for
// anything else.
func ConnectDB(dbURL string, logLevel logger.LogLevel) (*gorm.DB, error) {
	dbObj, err := gorm.Open(dialector(dbURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	slog.Info("database connection established", "driver", dbObj.Dialector.Name())
	return dbObj, nil
}

func dialector(dbURL string) gorm.Dialector {
	if strings.HasPrefix(dbURL, "postgres://") || strings.HasPrefix(dbURL, "postgresql://") {
		return postgres.Open(dbURL)
	}
	return sqlite.Open(sqliteDSN(dbURL))
}

// sqliteDSN strips an optional sqlite:/// prefix and switches on foreign keys,
// which sqlite leaves off per connection.
func sqliteDSN(dbURL string) string {
	dsn := strings.TrimPrefix(dbURL, "sqlite:///")
	if strings.Contains(dsn, "_foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}

// MigrateDB creates any missing tables, columns and indexes. Existing columns
// are never dropped or rewritten.
func MigrateDB(db *gorm.DB) error {
	slog.Info("running database migrations")

	err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.SearchCount{},
		&models.TotalSearchCount{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed")
	return nil
}
