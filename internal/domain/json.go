package domain

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON is a structured column stored as a single TEXT value.
//
// Encoding happens in Value when a row is written. Decoding happens in Scan
// when a row is read, and it never fails the scan: a malformed column leaves
// the zero value in Val and records the decode error, which Err reports. The
// repository turns that into a per-record DeserializationError so one bad row
// does not poison a whole listing.
type JSON[T any] struct {
	Val T
	err error
}

// NewJSON wraps v for storage.
func NewJSON[T any](v T) JSON[T] { return JSON[T]{Val: v} }

// Err returns the decode error captured by the last Scan, if any.
func (j JSON[T]) Err() error { return j.err }

// GormDataType makes AutoMigrate declare the column as TEXT.
func (JSON[T]) GormDataType() string { return "text" }

// Value implements driver.Valuer.
func (j JSON[T]) Value() (driver.Value, error) {
	b, err := json.Marshal(j.Val)
	if err != nil {
		return nil, fmt.Errorf("encode structured column: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (j *JSON[T]) Scan(src any) error {
	var zero T
	j.Val, j.err = zero, nil

	var raw []byte
	switch v := src.(type) {
	case nil:
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		j.err = fmt.Errorf("unsupported column type %T", src)
		return nil
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		j.err = err
		return nil
	}
	j.Val = out
	return nil
}

// MarshalJSON renders the wrapped value, so API payloads and outbox payloads
// carry the structure rather than its column encoding.
func (j JSON[T]) MarshalJSON() ([]byte, error) { return json.Marshal(j.Val) }

// UnmarshalJSON implements json.Unmarshaler.
func (j *JSON[T]) UnmarshalJSON(b []byte) error {
	j.err = nil
	return json.Unmarshal(b, &j.Val)
}
