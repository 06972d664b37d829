package repo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

// DefaultFile is the database file name used when Options.File is empty.
const DefaultFile = "fitness.db"

// Options configures a Store.
type Options struct {
	// Dir is the data directory; it is created on Init.
	Dir string
	// File is the database file name inside Dir.
	File string
	// Location is the timezone calendar days are computed in. Defaults to
	// time.Local.
	Location *time.Location
	// Logger is the GORM logger. Defaults to a silent logger.
	Logger logger.Interface
	// Tracing installs the GORM OpenTelemetry plugin.
	Tracing bool
}

// Store is the explicit handle on the local database. There is no package
// level connection: callers build one Store and pass it around.
//
// Init is idempotent and safe for concurrent callers. When the data directory
// cannot be created or the database file is corrupt, Init deletes the
// database files and tries exactly once more; if that also fails the store is
// permanently unusable and every later Init or DB call returns the same
// *InitializationError. Any other failure, including a cancelled context or a
// locked database, leaves the files alone and a later Init may retry.
type Store struct {
	opts Options

	mu    sync.RWMutex
	db    *gorm.DB
	fatal error
}

// NewStore returns an uninitialized Store.
func NewStore(opts Options) *Store {
	if opts.File == "" {
		opts.File = DefaultFile
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default.LogMode(logger.Silent)
	}
	return &Store{opts: opts}
}

// Path is the database file path.
func (s *Store) Path() string { return filepath.Join(s.opts.Dir, s.opts.File) }

// Location is the timezone used for calendar-day grouping.
func (s *Store) Location() *time.Location { return s.opts.Location }

// Init opens the database, checks its integrity and applies migrations.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fatal != nil {
		return s.fatal
	}
	if s.db != nil {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	db, err := s.open(ctx)
	if err != nil {
		if !errors.Is(err, errUnusable) {
			log.Warn().Err(err).Str("path", s.Path()).Msg("store_open_failed")
			return fmt.Errorf("open store %s: %w", s.Path(), err)
		}
		log.Warn().Err(err).Str("path", s.Path()).Msg("store_open_failed_recreating")
		s.removeFiles()
		db, err = s.open(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.fatal = &InitializationError{Path: s.Path(), Err: err}
			log.Error().Err(err).Str("path", s.Path()).Msg("store_unusable")
			return s.fatal
		}
	}
	s.db = db
	log.Info().Str("path", s.Path()).Msg("store_ready")
	return nil
}

// DB returns the live handle, ErrNotInitialized before Init, or the
// InitializationError of a failed Init.
func (s *Store) DB() (*gorm.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.fatal != nil {
		return nil, s.fatal
	}
	if s.db == nil {
		return nil, ErrNotInitialized
	}
	return s.db, nil
}

// Close releases the connection pool. A closed store can be Init-ed again.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	s.db = nil
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// errUnusable marks open failures that recreating the files can fix.
var errUnusable = errors.New("store files unusable")

// corruptMarkers are the SQLite messages for a file that is not a readable
// database.
var corruptMarkers = []string{
	"file is not a database",
	"database disk image is malformed",
	"sqlite_notadb",
	"sqlite_corrupt",
}

// unusable wraps err with errUnusable when it reports a corrupt file.
func unusable(err error) error {
	if errors.Is(err, errUnusable) {
		return err
	}
	msg := strings.ToLower(err.Error())
	for _, m := range corruptMarkers {
		if strings.Contains(msg, m) {
			return fmt.Errorf("%w: %w", errUnusable, err)
		}
	}
	return err
}

func (s *Store) open(ctx context.Context) (*gorm.DB, error) {
	if err := os.MkdirAll(s.opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %w", errUnusable, err)
	}
	db, err := OpenSQLite(s.Path(), &gorm.Config{Logger: s.opts.Logger})
	if err != nil {
		return nil, unusable(err)
	}
	if err := checkIntegrity(db.WithContext(ctx)); err != nil {
		closeQuietly(db)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, unusable(err)
	}
	if err := Migrate(ctx, db); err != nil {
		closeQuietly(db)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, unusable(err)
	}
	if s.opts.Tracing {
		if err := db.Use(tracing.NewPlugin()); err != nil {
			closeQuietly(db)
			return nil, err
		}
	}
	return db, nil
}

func (s *Store) removeFiles() {
	base := s.Path()
	for _, suffix := range []string{"", "-wal", "-shm", "-journal"} {
		if err := os.Remove(base + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("file", base+suffix).Msg("store_remove_failed")
		}
	}
}
