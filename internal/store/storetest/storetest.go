// Package storetest provides a migrated in-memory database for tests
package storetest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"protofolio/backend/db"
	"protofolio/backend/internal/store"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var seq atomic.Int64

// New returns a store over a private in-memory sqlite database that lives
// as long as the test
func New(t testing.TB) *store.Store {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to get sql handle: %v", err)
	}

	// A single connection keeps the shared in-memory database alive and
	// serializes writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return store.New(gdb)
}
