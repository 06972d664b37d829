// Package outbox is the durable queue of local mutations waiting to be pushed
// to the remote backend.
//
// Every local write records one item (operation, table, JSON snapshot of the
// row) in the sync_queue table, ideally in the same transaction as the write
// itself (EnqueueTx). Items are read back in FIFO order by the sync processor,
// removed on success and marked failed (attempts+1, last error) otherwise.
//
// Not every write is worth pushing: create and update of an unfinished
// workout session (no "completed" marker yet) are dropped at enqueue time.
// A drop is a normal outcome reported through EnqueueResult, never an error.
package outbox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-fitness-sync/internal/domain"
	"github.com/tbourn/go-fitness-sync/internal/repo"
)

var (
	// ErrInvalidOperation is returned for an operation other than
	// create, update or delete.
	ErrInvalidOperation = errors.New("outbox: invalid operation")

	// ErrInvalidTable is returned for a table that is not synced.
	ErrInvalidTable = errors.New("outbox: invalid table")

	// ErrInvalidPayload is returned when the payload is not a JSON object
	// with a non-empty string "id".
	ErrInvalidPayload = errors.New("outbox: payload must be a JSON object with an id")
)

// Outcome tells whether an enqueue produced a queue item.
type Outcome int

const (
	// Queued means the item was persisted and will be pushed.
	Queued Outcome = iota + 1
	// DroppedIneligible means the policy filtered the item out.
	DroppedIneligible
)

func (o Outcome) String() string {
	switch o {
	case Queued:
		return "queued"
	case DroppedIneligible:
		return "dropped_ineligible"
	}
	return "unknown"
}

// EnqueueResult reports what Enqueue did. Item is nil for drops.
type EnqueueResult struct {
	Outcome Outcome
	Item    *domain.SyncQueueItem
}

// Outbox wraps the sync_queue table of a Store.
type Outbox struct {
	store *repo.Store
	now   func() time.Time
}

// Option configures an Outbox.
type Option func(*Outbox)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *Outbox) { o.now = now }
}

// New returns an Outbox over store.
func New(store *repo.Store, opts ...Option) *Outbox {
	o := &Outbox{store: store, now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Enqueue records a mutation in its own transaction.
func (o *Outbox) Enqueue(ctx context.Context, op domain.Operation, table domain.EntityKind, payload any) (EnqueueResult, error) {
	db, err := o.store.DB()
	if err != nil {
		return EnqueueResult{}, err
	}
	return o.EnqueueTx(ctx, db, op, table, payload)
}

// EnqueueTx records a mutation using tx, so it commits or rolls back together
// with the entity write made on the same transaction.
//
// payload may be a struct, a map, json.RawMessage or []byte; it must encode
// to a JSON object with a non-empty string "id".
func (o *Outbox) EnqueueTx(ctx context.Context, tx *gorm.DB, op domain.Operation, table domain.EntityKind, payload any) (EnqueueResult, error) {
	if !op.Valid() {
		return EnqueueResult{}, fmt.Errorf("%w: %q", ErrInvalidOperation, op)
	}
	if !table.Valid() {
		return EnqueueResult{}, fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}
	raw, fields, err := encodePayload(payload)
	if err != nil {
		return EnqueueResult{}, err
	}

	if !Eligible(op, table, fields) {
		droppedTotal.WithLabelValues(string(table), string(op)).Inc()
		log.Info().
			Str("table", string(table)).
			Str("operation", string(op)).
			Str("entity_id", stringField(fields, "id")).
			Msg("outbox_dropped_ineligible")
		return EnqueueResult{Outcome: DroppedIneligible}, nil
	}

	item := &domain.SyncQueueItem{Operation: op, Table: table, Payload: string(raw)}
	if err := repo.InsertQueueItem(ctx, tx, item, o.now()); err != nil {
		return EnqueueResult{}, err
	}
	enqueuedTotal.WithLabelValues(string(table), string(op)).Inc()
	log.Debug().
		Int64("item_id", item.ID).
		Str("table", string(table)).
		Str("operation", string(op)).
		Msg("outbox_enqueued")
	return EnqueueResult{Outcome: Queued, Item: item}, nil
}

// Eligible is the enqueue policy. Deletes are always pushed. Creates and
// updates of workout sessions are pushed only once the payload carries a
// non-null "completed" marker; every other table is always pushed.
func Eligible(op domain.Operation, table domain.EntityKind, fields map[string]json.RawMessage) bool {
	if op == domain.OpDelete || table != domain.KindSession {
		return true
	}
	v, ok := fields["completed"]
	return ok && !isNull(v)
}

// ListPending returns every queued item, oldest first.
func (o *Outbox) ListPending(ctx context.Context) ([]domain.SyncQueueItem, error) {
	db, err := o.store.DB()
	if err != nil {
		return nil, err
	}
	return repo.ListQueueItems(ctx, db)
}

// Pending reports whether the item is still queued. It turns false once the
// item is removed or the queue is cleared.
func (o *Outbox) Pending(ctx context.Context, id int64) (bool, error) {
	db, err := o.store.DB()
	if err != nil {
		return false, err
	}
	_, err = repo.GetQueueItem(ctx, db, id)
	if errors.Is(err, repo.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Remove deletes an item after it was applied remotely.
func (o *Outbox) Remove(ctx context.Context, id int64) error {
	db, err := o.store.DB()
	if err != nil {
		return err
	}
	return repo.DeleteQueueItem(ctx, db, id)
}

// MarkFailed records a failed attempt. The item stays queued in place.
func (o *Outbox) MarkFailed(ctx context.Context, id int64, errText string) error {
	db, err := o.store.DB()
	if err != nil {
		return err
	}
	if err := repo.MarkQueueItemFailed(ctx, db, id, errText); err != nil {
		return err
	}
	failedTotal.Inc()
	return nil
}

// Clear empties the queue and returns how many items were discarded.
func (o *Outbox) Clear(ctx context.Context) (int64, error) {
	db, err := o.store.DB()
	if err != nil {
		return 0, err
	}
	n, err := repo.ClearQueue(ctx, db)
	if err == nil && n > 0 {
		log.Warn().Int64("discarded", n).Msg("outbox_cleared")
	}
	return n, err
}

// Len returns the number of queued items.
func (o *Outbox) Len(ctx context.Context) (int, error) {
	db, err := o.store.DB()
	if err != nil {
		return 0, err
	}
	n, err := repo.CountQueueItems(ctx, db)
	return int(n), err
}

func encodePayload(payload any) (json.RawMessage, map[string]json.RawMessage, error) {
	var raw []byte
	switch p := payload.(type) {
	case json.RawMessage:
		raw = p
	case []byte:
		raw = p
	case string:
		raw = []byte(p)
	default:
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		raw = b
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, nil, ErrInvalidPayload
	}
	if stringField(fields, "id") == "" {
		return nil, nil, ErrInvalidPayload
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return compact.Bytes(), fields, nil
}

func stringField(fields map[string]json.RawMessage, name string) string {
	var s string
	if err := json.Unmarshal(fields[name], &s); err != nil {
		return ""
	}
	return s
}

func isNull(v json.RawMessage) bool {
	t := bytes.TrimSpace(v)
	return len(t) == 0 || string(t) == "null"
}
