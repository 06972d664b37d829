// Package repo implements the local entity store of the fitness log on top of
// GORM and the pure-Go SQLite driver. It covers the store lifecycle (open,
// integrity check, versioned migrations, one-shot destructive recovery),
// generic entity CRUD, the cascading deletes of composite aggregates, the
// outbox table and the calendar statistics.
//
// Functions are context-aware and accept a *gorm.DB handle, so the same call
// works on the root handle or inside a transaction. Callers that need the
// entity write and its outbox record to commit together pass the
// transaction handle to both.
package repo

import (
	"fmt"
	"os"
	"path/filepath"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// pragmas are applied on every new connection through the DSN, so they
// survive pool churn.
const pragmas = "_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// OpenSQLite opens (or creates) a SQLite database and applies PRAGMAs.
//
// The pool is capped at one open connection: SQLite allows a single writer,
// and serializing at the pool keeps concurrent enqueue/drain/write callers
// from racing into SQLITE_BUSY.
func OpenSQLite(path string, cfg *gorm.Config) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)").
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}
	if cfg == nil {
		cfg = &gorm.Config{}
	}

	db, err := gorm.Open(sqlite.Open(path+"?"+pragmas), cfg)
	if err != nil {
		return nil, err
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxIdleTime(0)
		sqlDB.SetConnMaxLifetime(0)
	}
	return db, nil
}

// checkIntegrity runs PRAGMA quick_check and fails unless SQLite reports "ok".
func checkIntegrity(db *gorm.DB) error {
	var res string
	if err := db.Raw("PRAGMA quick_check").Scan(&res).Error; err != nil {
		return err
	}
	if res != "ok" {
		return fmt.Errorf("%w: integrity check: %s", errUnusable, res)
	}
	return nil
}

func closeQuietly(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
