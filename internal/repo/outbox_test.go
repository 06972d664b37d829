package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tbourn/go-fitness-sync/internal/domain"
)

func queueItem(op domain.Operation, table domain.EntityKind, payload string) *domain.SyncQueueItem {
	return &domain.SyncQueueItem{Operation: op, Table: table, Payload: payload}
}

func TestInsertQueueItem_StrictlyIncreasingTimestamps(t *testing.T) {
	_, db := newTestStore(t)
	ctx := context.Background()
	now := time.UnixMilli(1_700_000_000_000)

	a := queueItem(domain.OpCreate, domain.KindGym, `{"id":"g1"}`)
	b := queueItem(domain.OpCreate, domain.KindGym, `{"id":"g2"}`)
	c := queueItem(domain.OpCreate, domain.KindGym, `{"id":"g3"}`)
	for _, it := range []*domain.SyncQueueItem{a, b} {
		if err := InsertQueueItem(ctx, db, it, now); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	// Clock went backwards.
	if err := InsertQueueItem(ctx, db, c, now.Add(-time.Hour)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if !(a.EnqueuedAt < b.EnqueuedAt && b.EnqueuedAt < c.EnqueuedAt) {
		t.Fatalf("timestamps not strictly increasing: %d %d %d", a.EnqueuedAt, b.EnqueuedAt, c.EnqueuedAt)
	}
	if a.EnqueuedAt != now.UnixMilli() {
		t.Fatalf("first timestamp = %d; want %d", a.EnqueuedAt, now.UnixMilli())
	}

	items, err := ListQueueItems(ctx, db)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 3 || items[0].ID != a.ID || items[1].ID != b.ID || items[2].ID != c.ID {
		t.Fatalf("unexpected order: %+v", items)
	}
}

func TestMarkQueueItemFailed_Accumulates(t *testing.T) {
	_, db := newTestStore(t)
	ctx := context.Background()
	it := queueItem(domain.OpDelete, domain.KindSession, `{"id":"s1"}`)
	if err := InsertQueueItem(ctx, db, it, time.Now()); err != nil {
		t.Fatal(err)
	}
	if err := MarkQueueItemFailed(ctx, db, it.ID, "e1"); err != nil {
		t.Fatal(err)
	}
	if err := MarkQueueItemFailed(ctx, db, it.ID, "e2"); err != nil {
		t.Fatal(err)
	}
	got, err := GetQueueItem(ctx, db, it.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Attempts != 2 || got.LastError == nil || *got.LastError != "e2" {
		t.Fatalf("attempts=%d error=%v; want 2, e2", got.Attempts, got.LastError)
	}
	if err := MarkQueueItemFailed(ctx, db, 9999, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing id err = %v; want ErrNotFound", err)
	}
}

func TestDeleteQueueItem_IDsAreNeverReused(t *testing.T) {
	_, db := newTestStore(t)
	ctx := context.Background()
	a := queueItem(domain.OpCreate, domain.KindGoal, `{"id":"1"}`)
	b := queueItem(domain.OpCreate, domain.KindGoal, `{"id":"2"}`)
	_ = InsertQueueItem(ctx, db, a, time.Now())
	_ = InsertQueueItem(ctx, db, b, time.Now())

	if err := DeleteQueueItem(ctx, db, b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := DeleteQueueItem(ctx, db, b.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v; want ErrNotFound", err)
	}
	c := queueItem(domain.OpCreate, domain.KindGoal, `{"id":"3"}`)
	_ = InsertQueueItem(ctx, db, c, time.Now())
	if c.ID <= b.ID {
		t.Fatalf("id %d reused or went backwards (deleted id was %d)", c.ID, b.ID)
	}
}

func TestClearAndCountQueue(t *testing.T) {
	_, db := newTestStore(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_ = InsertQueueItem(ctx, db, queueItem(domain.OpCreate, domain.KindGym, `{"id":"g"}`), time.Now())
	}
	if n, err := CountQueueItems(ctx, db); err != nil || n != 3 {
		t.Fatalf("count = %d, %v", n, err)
	}
	if n, err := ClearQueue(ctx, db); err != nil || n != 3 {
		t.Fatalf("clear = %d, %v", n, err)
	}
	if n, _ := CountQueueItems(ctx, db); n != 0 {
		t.Fatalf("count after clear = %d", n)
	}
}

func TestSyncQueue_RejectsUnknownOperation(t *testing.T) {
	_, db := newTestStore(t)
	it := queueItem("upsert", domain.KindGym, `{"id":"g"}`)
	if err := InsertQueueItem(context.Background(), db, it, time.Now()); err == nil {
		t.Fatalf("expected CHECK constraint failure for unknown operation")
	}
}
