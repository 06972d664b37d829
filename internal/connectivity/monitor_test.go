package connectivity

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"
)

func received(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	case <-time.After(50 * time.Millisecond):
		return false
	}
}

func TestSet_EdgeOnlyOnOfflineToOnline(t *testing.T) {
	m := NewMonitor(nil, false)
	ch, cancel := m.Subscribe()
	defer cancel()

	if m.Set(false) {
		t.Fatalf("offline→offline must not be an edge")
	}
	if received(ch) {
		t.Fatalf("unexpected notification")
	}
	if !m.Set(true) {
		t.Fatalf("offline→online must be an edge")
	}
	if !received(ch) {
		t.Fatalf("subscriber not notified")
	}
	if m.Set(true) {
		t.Fatalf("online→online must not be an edge")
	}
	if received(ch) {
		t.Fatalf("unexpected notification on online→online")
	}
	if !m.Online() {
		t.Fatalf("Online() = false")
	}
}

func TestSubscribe_CoalescesAndCancels(t *testing.T) {
	m := NewMonitor(nil, false)
	ch, cancel := m.Subscribe()
	other, cancelOther := m.Subscribe()
	defer cancelOther()

	// Two edges while unread collapse into one pending notification and
	// never block Set.
	m.Set(true)
	m.Set(false)
	m.Set(true)
	if !received(ch) {
		t.Fatalf("expected a pending notification")
	}
	if received(ch) {
		t.Fatalf("edges should be coalesced")
	}
	if !received(other) {
		t.Fatalf("every subscriber is notified")
	}

	cancel()
	cancel() // idempotent
	m.Set(false)
	m.Set(true)
	if received(ch) {
		t.Fatalf("cancelled subscriber notified")
	}
}

func TestForeground_Reprobes(t *testing.T) {
	var up atomic.Bool
	m := NewMonitor(ProberFunc(func(context.Context) bool { return up.Load() }), false)
	ch, cancel := m.Subscribe()
	defer cancel()

	if m.Foreground(context.Background()) {
		t.Fatalf("prober says offline")
	}
	up.Store(true)
	if !m.Foreground(context.Background()) {
		t.Fatalf("prober says online")
	}
	if !received(ch) {
		t.Fatalf("foreground transition should fire the edge")
	}
}

func TestCheck_WithoutProberKeepsState(t *testing.T) {
	m := NewMonitor(nil, true)
	if !m.Check(context.Background()) {
		t.Fatalf("state should be unchanged without a prober")
	}
}

func TestRun_PollsUntilCancelled(t *testing.T) {
	var calls atomic.Int32
	m := NewMonitor(ProberFunc(func(context.Context) bool {
		calls.Add(1)
		return true
	}), false)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx, 5*time.Millisecond)
		close(done)
	}()
	time.Sleep(40 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not stop")
	}
	if calls.Load() < 2 {
		t.Fatalf("expected repeated probes, got %d", calls.Load())
	}
	if !m.Online() {
		t.Fatalf("monitor should be online after probing")
	}
}

func TestDialProber(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			_ = c.Close()
		}
	}()

	p := DialProber{Address: addr, Timeout: time.Second}
	if !p.Probe(context.Background()) {
		t.Fatalf("expected reachable listener")
	}
	_ = ln.Close()
	if p.Probe(context.Background()) {
		t.Fatalf("expected closed listener to be unreachable")
	}
}
