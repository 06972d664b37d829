package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-fitness-sync/internal/domain"
)

type migration struct {
	Version     int
	Description string
	Up          func(tx *gorm.DB) error
}

// schemaMigration is one applied row of schema_migrations.
type schemaMigration struct {
	Version     int       `gorm:"primaryKey;autoIncrement:false"`
	Description string    `gorm:"type:text;not null"`
	AppliedAt   time.Time `gorm:"not null"`
}

func (schemaMigration) TableName() string { return "schema_migrations" }

// The outbox keeps explicit DDL: AUTOINCREMENT guarantees ids are never
// reused after deletes, which GORM's AutoMigrate does not emit for SQLite.
var syncQueueDDL = []string{
	`CREATE TABLE IF NOT EXISTS sync_queue (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		operation   TEXT    NOT NULL CHECK (operation IN ('create','update','delete')),
		table_name  TEXT    NOT NULL,
		payload     TEXT    NOT NULL,
		enqueued_at INTEGER NOT NULL,
		attempts    INTEGER NOT NULL DEFAULT 0 CHECK (attempts >= 0),
		last_error  TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sync_queue_order ON sync_queue (enqueued_at, id)`,
}

var migrations = []migration{
	{
		Version:     1,
		Description: "entity tables",
		Up:          func(tx *gorm.DB) error { return tx.AutoMigrate(domain.Models()...) },
	},
	{
		Version:     2,
		Description: "sync queue",
		Up: func(tx *gorm.DB) error {
			for _, stmt := range syncQueueDDL {
				if err := tx.Exec(stmt).Error; err != nil {
					return err
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "ui state",
		Up:          func(tx *gorm.DB) error { return tx.AutoMigrate(&domain.UIStateEntry{}) },
	},
}

// Migrate applies every migration newer than the recorded schema version.
// Each migration runs in its own transaction together with its
// schema_migrations row.
func Migrate(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)
	if err := db.AutoMigrate(&schemaMigration{}); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	current, err := SchemaVersion(ctx, db)
	if err != nil {
		return err
	}
	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&schemaMigration{
				Version:     m.Version,
				Description: m.Description,
				AppliedAt:   time.Now().UTC(),
			}).Error
		})
		if err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}
		log.Info().Int("version", m.Version).Str("description", m.Description).Msg("schema_migrated")
	}
	return nil
}

// SchemaVersion returns the highest applied migration, 0 for a fresh file.
func SchemaVersion(ctx context.Context, db *gorm.DB) (int, error) {
	var v int
	err := db.WithContext(ctx).
		Model(&schemaMigration{}).
		Select("COALESCE(MAX(version), 0)").
		Scan(&v).Error
	return v, err
}
