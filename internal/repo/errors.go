package repo

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tbourn/go-fitness-sync/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound so callers can use either.
var ErrNotFound = gorm.ErrRecordNotFound

var (
	// ErrNotInitialized is returned by Store.DB before Init has succeeded.
	ErrNotInitialized = errors.New("store not initialized")

	// ErrMissingID is returned when an entity is written without an id or
	// without an owning user id.
	ErrMissingID = errors.New("entity id and user id are required")
)

// InitializationError reports that the store could not be opened even after
// the one destructive recovery attempt. The store stays unusable.
type InitializationError struct {
	Path string
	Err  error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("initialize store %s: %v", e.Path, e.Err)
}

func (e *InitializationError) Unwrap() error { return e.Err }

// DeserializationError reports a stored structured column that could not be
// decoded. It is scoped to a single record.
type DeserializationError struct {
	Table domain.EntityKind
	ID    string
	Field string
	Err   error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("decode %s.%s of %s: %v", e.Table, e.Field, e.ID, e.Err)
}

func (e *DeserializationError) Unwrap() error { return e.Err }

// IsDeserialization reports whether err carries a DeserializationError.
func IsDeserialization(err error) bool {
	var de *DeserializationError
	return errors.As(err, &de)
}
