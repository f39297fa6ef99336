package database

import (
	"fmt"
	"strings"

	"number-cruncher/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/golang/glog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the audit database and runs migrations.
// glebarez/sqlite is a pure Go implementation (no CGO required).
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if strings.Contains(dsn, ":memory:") {
		// each pooled connection to an in-memory database sees its own empty copy
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	glog.Infof("audit database ready (%s)", dsn)
	return db, nil
}

// Migrate creates or updates the tables this service owns
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.AuditRecord{})
}
