package testutil

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	dbpkg "github.com/raja1702/computer-storage-solutions/internal/data/db"
	"github.com/raja1702/computer-storage-solutions/internal/platform/logger"
)

var (
	logOnce sync.Once
	logg    *logger.Logger
	logErr  error

	sqliteSeq atomic.Int64
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB returns a migrated, empty in-memory SQLite database private to the caller.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	name := fmt.Sprintf("file:ledger_test_%d?mode=memory&cache=shared", sqliteSeq.Add(1))
	db, err := dbpkg.OpenSQLite(name, nil, true)
	if err != nil {
		tb.Fatalf("failed to open test db: %v", err)
	}
	if err := dbpkg.AutoMigrateAll(db); err != nil {
		tb.Fatalf("failed to migrate test db: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
