package services

import (
	"context"
	"errors"
	"testing"

	"github.com/tbourn/go-fitness-sync/internal/cache"
	"github.com/tbourn/go-fitness-sync/internal/domain"
)

type fakeSwitch struct{ calls []bool }

func (f *fakeSwitch) SetEnabled(on bool) { f.calls = append(f.calls, on) }

func TestSignOut(t *testing.T) {
	for _, wipe := range []bool{false, true} {
		e := newEnv(t)
		ctx := context.Background()
		sw := &fakeSwitch{}
		acct := NewAccountService(e.store, sw, e.ob, e.cache)

		if err := acct.PutUIState(ctx, "u1", "last_tab", "history"); err != nil {
			t.Fatal(err)
		}
		if err := acct.PutUIState(ctx, "u2", "last_tab", "stats"); err != nil {
			t.Fatal(err)
		}
		if _, err := e.log.SaveGoal(ctx, "u1", &domain.Goal{ID: "g1", Title: "Run 5k"}); err != nil {
			t.Fatal(err)
		}
		e.cache.Set(cache.NewKey(CacheStreaks), 1, "u1")
		e.cache.Set(cache.NewKey(CacheVolume, 7), 2, "u2")

		res, err := acct.SignOut(ctx, "u1", wipe)
		if err != nil {
			t.Fatalf("SignOut(wipe=%v): %v", wipe, err)
		}
		if len(sw.calls) != 1 || sw.calls[0] {
			t.Fatalf("sync switch calls = %v; want [false]", sw.calls)
		}
		if res.UIStateCleared != 1 || res.CacheEvicted != 2 {
			t.Fatalf("result = %+v", res)
		}
		if _, err := acct.GetUIState(ctx, "u1", "last_tab"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("u1 state still present: %v", err)
		}
		if v, err := acct.GetUIState(ctx, "u2", "last_tab"); err != nil || v != "stats" {
			t.Fatalf("u2 state = %q, %v; want untouched", v, err)
		}
		if e.cache.Len() != 0 {
			t.Fatalf("cache not emptied")
		}

		n, _ := e.ob.Len(ctx)
		switch {
		case wipe && (n != 0 || res.QueueDiscarded != 1):
			t.Fatalf("wipe: queue len %d, discarded %d", n, res.QueueDiscarded)
		case !wipe && (n != 1 || res.QueueDiscarded != 0):
			t.Fatalf("keep: queue len %d, discarded %d", n, res.QueueDiscarded)
		}
	}
}

func TestSignOut_RequiresUser(t *testing.T) {
	e := newEnv(t)
	sw := &fakeSwitch{}
	acct := NewAccountService(e.store, sw, e.ob, e.cache)
	if _, err := acct.SignOut(context.Background(), "", true); !errors.Is(err, ErrNoUser) {
		t.Fatalf("err = %v; want ErrNoUser", err)
	}
	if len(sw.calls) != 0 {
		t.Fatalf("sync must stay untouched without a user")
	}
	if err := acct.SignIn(context.Background(), "u1"); err != nil || len(sw.calls) != 1 || !sw.calls[0] {
		t.Fatalf("SignIn: %v, calls %v", err, sw.calls)
	}
}
