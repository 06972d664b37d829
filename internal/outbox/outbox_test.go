package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"gorm.io/gorm"

	"github.com/tbourn/go-fitness-sync/internal/domain"
	"github.com/tbourn/go-fitness-sync/internal/repo"
)

func newTestOutbox(t *testing.T, opts ...Option) (*Outbox, *repo.Store) {
	t.Helper()
	st := repo.NewStore(repo.Options{Dir: t.TempDir(), Location: time.UTC})
	if err := st.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return New(st, opts...), st
}

func TestEnqueue_FIFOOrder(t *testing.T) {
	ob, _ := newTestOutbox(t)
	ctx := context.Background()

	want := []string{"A", "B", "C"}
	for _, id := range want {
		res, err := ob.Enqueue(ctx, domain.OpCreate, domain.KindGoal, map[string]any{"id": id, "user_id": "u1"})
		if err != nil || res.Outcome != Queued || res.Item == nil {
			t.Fatalf("enqueue %s = %+v, %v", id, res, err)
		}
	}
	items, err := ob.ListPending(ctx)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(items) != len(want) {
		t.Fatalf("got %d items; want %d", len(items), len(want))
	}
	for i, it := range items {
		if got := it.PayloadField("id"); got != want[i] {
			t.Fatalf("items[%d] id = %q; want %q", i, got, want[i])
		}
		if i > 0 && it.EnqueuedAt <= items[i-1].EnqueuedAt {
			t.Fatalf("timestamps not strictly increasing at %d", i)
		}
	}
}

func TestEnqueue_FrozenClockStillOrdered(t *testing.T) {
	frozen := time.UnixMilli(1_700_000_000_000)
	ob, _ := newTestOutbox(t, WithClock(func() time.Time { return frozen }))
	ctx := context.Background()
	for _, id := range []string{"x", "y"} {
		if _, err := ob.Enqueue(ctx, domain.OpUpdate, domain.KindGym, map[string]any{"id": id}); err != nil {
			t.Fatal(err)
		}
	}
	items, _ := ob.ListPending(ctx)
	if len(items) != 2 || items[0].EnqueuedAt != frozen.UnixMilli() || items[1].EnqueuedAt != frozen.UnixMilli()+1 {
		t.Fatalf("unexpected timestamps: %+v", items)
	}
}

func TestEnqueue_SessionEligibility(t *testing.T) {
	ob, _ := newTestOutbox(t)
	ctx := context.Background()
	before := testutil.ToFloat64(droppedTotal.WithLabelValues("sessions", "create"))

	draft := domain.WorkoutSession{ID: "s1", UserID: "u1", StartedAt: time.Now()}
	res, err := ob.Enqueue(ctx, domain.OpCreate, domain.KindSession, draft)
	if err != nil {
		t.Fatalf("enqueue draft returned error: %v", err)
	}
	if res.Outcome != DroppedIneligible || res.Item != nil {
		t.Fatalf("draft outcome = %v; want DroppedIneligible", res.Outcome)
	}
	if n, _ := ob.Len(ctx); n != 0 {
		t.Fatalf("queue length = %d; want 0 after drop", n)
	}
	if after := testutil.ToFloat64(droppedTotal.WithLabelValues("sessions", "create")); after != before+1 {
		t.Fatalf("dropped counter = %v; want %v", after, before+1)
	}

	// A missing key is as ineligible as an explicit null.
	if res, _ := ob.Enqueue(ctx, domain.OpUpdate, domain.KindSession, json.RawMessage(`{"id":"s1"}`)); res.Outcome != DroppedIneligible {
		t.Fatalf("update without completed = %v; want DroppedIneligible", res.Outcome)
	}

	done := time.Now()
	draft.Completed = &done
	if res, err := ob.Enqueue(ctx, domain.OpUpdate, domain.KindSession, draft); err != nil || res.Outcome != Queued {
		t.Fatalf("completed session = %+v, %v; want Queued", res, err)
	}

	// Deletes are always eligible.
	if res, err := ob.Enqueue(ctx, domain.OpDelete, domain.KindSession, map[string]any{"id": "s9"}); err != nil || res.Outcome != Queued {
		t.Fatalf("delete = %+v, %v; want Queued", res, err)
	}
	// Other tables ignore the completed marker.
	if res, _ := ob.Enqueue(ctx, domain.OpCreate, domain.KindSetLog, map[string]any{"id": "l1"}); res.Outcome != Queued {
		t.Fatalf("set log = %v; want Queued", res.Outcome)
	}
	if n, _ := ob.Len(ctx); n != 3 {
		t.Fatalf("queue length = %d; want 3", n)
	}
}

func TestEnqueue_Validation(t *testing.T) {
	ob, _ := newTestOutbox(t)
	ctx := context.Background()
	if _, err := ob.Enqueue(ctx, "upsert", domain.KindGym, map[string]any{"id": "g"}); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("err = %v; want ErrInvalidOperation", err)
	}
	if _, err := ob.Enqueue(ctx, domain.OpCreate, "friends", map[string]any{"id": "g"}); !errors.Is(err, ErrInvalidTable) {
		t.Fatalf("err = %v; want ErrInvalidTable", err)
	}
	for _, p := range []any{`[1,2]`, `{"name":"no id"}`, `{"id":""}`, `{"id":7}`, "not json"} {
		if _, err := ob.Enqueue(ctx, domain.OpCreate, domain.KindGym, p); !errors.Is(err, ErrInvalidPayload) {
			t.Fatalf("payload %v: err = %v; want ErrInvalidPayload", p, err)
		}
	}
}

func TestMarkFailed_AccumulatesAndKeepsPosition(t *testing.T) {
	ob, _ := newTestOutbox(t)
	ctx := context.Background()
	first, _ := ob.Enqueue(ctx, domain.OpCreate, domain.KindGym, map[string]any{"id": "g1"})
	_, _ = ob.Enqueue(ctx, domain.OpCreate, domain.KindGym, map[string]any{"id": "g2"})

	if err := ob.MarkFailed(ctx, first.Item.ID, "e1"); err != nil {
		t.Fatal(err)
	}
	if err := ob.MarkFailed(ctx, first.Item.ID, "e2"); err != nil {
		t.Fatal(err)
	}
	items, _ := ob.ListPending(ctx)
	if len(items) != 2 || items[0].ID != first.Item.ID {
		t.Fatalf("failed item must stay at the head: %+v", items)
	}
	if items[0].Attempts != 2 || items[0].LastError == nil || *items[0].LastError != "e2" {
		t.Fatalf("attempts=%d error=%v; want 2, e2", items[0].Attempts, items[0].LastError)
	}
}

func TestRemoveAndClear(t *testing.T) {
	ob, _ := newTestOutbox(t)
	ctx := context.Background()
	a, _ := ob.Enqueue(ctx, domain.OpCreate, domain.KindGym, map[string]any{"id": "g1"})
	_, _ = ob.Enqueue(ctx, domain.OpCreate, domain.KindGym, map[string]any{"id": "g2"})

	if err := ob.Remove(ctx, a.Item.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := ob.Remove(ctx, a.Item.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("second Remove err = %v; want ErrNotFound", err)
	}
	if n, err := ob.Clear(ctx); err != nil || n != 1 {
		t.Fatalf("Clear = %d, %v", n, err)
	}
	if n, _ := ob.Len(ctx); n != 0 {
		t.Fatalf("Len after clear = %d", n)
	}
}

func TestEnqueueTx_RollsBackWithEntityWrite(t *testing.T) {
	ob, st := newTestOutbox(t)
	ctx := context.Background()
	db, _ := st.DB()

	boom := errors.New("boom")
	err := db.Transaction(func(tx *gorm.DB) error {
		g := &domain.Gym{ID: "g1", UserID: "u1", Name: "Garage"}
		if err := repo.Upsert(ctx, tx, g); err != nil {
			return err
		}
		if _, err := ob.EnqueueTx(ctx, tx, domain.OpCreate, domain.KindGym, g); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("tx err = %v", err)
	}
	if n, _ := ob.Len(ctx); n != 0 {
		t.Fatalf("queue item survived a rolled back write")
	}
	if _, err := repo.Get[domain.Gym](ctx, db, "g1", "u1"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("entity survived a rolled back write")
	}
}

func TestOperationsBeforeInit(t *testing.T) {
	ob := New(repo.NewStore(repo.Options{Dir: t.TempDir()}))
	if _, err := ob.ListPending(context.Background()); !errors.Is(err, repo.ErrNotInitialized) {
		t.Fatalf("err = %v; want ErrNotInitialized", err)
	}
	if _, err := ob.Enqueue(context.Background(), domain.OpDelete, domain.KindGym, map[string]any{"id": "g"}); !errors.Is(err, repo.ErrNotInitialized) {
		t.Fatalf("err = %v; want ErrNotInitialized", err)
	}
}

func TestToWire(t *testing.T) {
	msg := "e1"
	w := ToWire(domain.SyncQueueItem{ID: 3, Operation: domain.OpDelete, Table: domain.KindGym, Payload: `{"id":"g1"}`, EnqueuedAt: 42, Attempts: 1, LastError: &msg})
	b, err := json.Marshal(w)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"id":3,"operation":"delete","table":"gyms","payload":{"id":"g1"},"timestamp":42,"attempts":1,"error":"e1"}`
	if string(b) != want {
		t.Fatalf("wire = %s\nwant  %s", b, want)
	}
}

func TestPending(t *testing.T) {
	ob, _ := newTestOutbox(t)
	ctx := context.Background()
	res, err := ob.Enqueue(ctx, domain.OpCreate, domain.KindGoal, map[string]any{"id": "g1"})
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if ok, err := ob.Pending(ctx, res.Item.ID); err != nil || !ok {
		t.Fatalf("Pending = %v, %v; want true", ok, err)
	}
	if _, err := ob.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if ok, err := ob.Pending(ctx, res.Item.ID); err != nil || ok {
		t.Fatalf("Pending after Clear = %v, %v; want false", ok, err)
	}
}
