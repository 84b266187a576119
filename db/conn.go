// Package db opens the gorm connection and keeps the schema migrated
package db

import (
	"errors"
	"fmt"
	"os"

	"protofolio/backend/config"
	"protofolio/backend/internal/model"
	"protofolio/backend/pkg/util"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func New(c *config.Database) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch c.Driver {
	case "postgres":
		dialector = postgres.Open(c.DSN)
	case "sqlite":
		// If running in a docker container don't allow the sqlite file to be created.
		// The host should instead mount it using volumes
		if util.IsRunningInDocker() {
			if _, err := os.Stat(c.Path); errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("SQLite database file not mounted, please use docker volumes to mount it to /app/%s", c.Path)
			}
		}

		dialector = sqlite.Open(c.Path)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s database, %w", c.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle, %w", err)
	}

	if c.PoolSize > 0 {
		sqlDB.SetMaxOpenConns(c.PoolSize)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates every table the service owns
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Cart{},
		&model.VerificationRecord{},
		&model.FailedAttempt{},
		&model.PasswordReset{},
		&model.BlacklistEntry{},
		&model.LogEntry{},
	)
	if err != nil {
		return fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return nil
}
