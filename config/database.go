package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/kendall-kelly/fixnow-api/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenDatabase establishes a connection to the database named by cfg.DatabaseURL.
// postgres:// and postgresql:// URLs use the PostgreSQL driver; sqlite:<path>
// and file:<path> use SQLite.
func OpenDatabase(cfg *Config) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	// TranslateError maps unique violations onto gorm.ErrDuplicatedKey
	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if dialector.Name() == "sqlite" {
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("failed to enable sqlite foreign keys: %w", err)
		}
		// A single connection keeps in-memory databases shared across queries
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database instance: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	log.Printf("Database connection established successfully (%s)", dialector.Name())
	return db, nil
}

func dialectorFor(databaseURL string) (gorm.Dialector, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return postgres.Open(databaseURL), nil
	case strings.HasPrefix(databaseURL, "sqlite:"):
		return sqlite.Open(strings.TrimPrefix(databaseURL, "sqlite:")), nil
	case strings.HasPrefix(databaseURL, "file:"):
		return sqlite.Open(databaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported DATABASE_URL scheme: %q", databaseURL)
	}
}

// Migrate creates or updates the tables for every entity
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Appointment{},
		&models.Review{},
	)
}
