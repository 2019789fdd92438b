package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/raja1702/computer-storage-solutions/internal/platform/logger"
)

// OpenSQLite opens a file (or ":memory:" / "file::memory:?cache=shared") database
// for local development and tests.
func OpenSQLite(path string, logg *logger.Logger, quiet bool) (*gorm.DB, error) {
	gl := newGormLogger()
	if quiet {
		gl = gormLogger.Default.LogMode(gormLogger.Silent)
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gl,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %q: %w", path, err)
	}
	// One connection keeps an in-memory database alive and avoids SQLITE_BUSY.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if logg != nil {
		logg.With("service", "SQLite").Debug("Opened SQLite database", "path", path)
	}
	return db, nil
}
