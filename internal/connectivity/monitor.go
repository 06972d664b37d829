// Package connectivity tracks whether the remote backend is reachable.
//
// The Monitor holds the last known state only; nothing is persisted. The host
// pushes OS reachability callbacks through Set, re-checks on app foreground
// through Foreground, and may run a best-effort polling loop with Run. Each
// offline→online transition is announced to subscribers as a "became online"
// edge, which the sync processor uses as a drain trigger.
package connectivity

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// Prober checks reachability. Implementations must honor ctx.
type Prober interface {
	Probe(ctx context.Context) bool
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(ctx context.Context) bool

func (f ProberFunc) Probe(ctx context.Context) bool { return f(ctx) }

// DialProber reports reachability by opening (and closing) a connection.
type DialProber struct {
	Network string // defaults to "tcp"
	Address string // host:port
	Timeout time.Duration
}

func (p DialProber) Probe(ctx context.Context) bool {
	network := p.Network
	if network == "" {
		network = "tcp"
	}
	d := net.Dialer{Timeout: p.Timeout}
	conn, err := d.DialContext(ctx, network, p.Address)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

var onlineGauge = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "fitsync_connectivity_online",
	Help: "1 when the remote backend is considered reachable.",
})

func init() { prometheus.MustRegister(onlineGauge) }

// Monitor is the connectivity state machine.
type Monitor struct {
	prober Prober

	mu     sync.Mutex
	online bool
	subs   map[int]chan struct{}
	nextID int
}

// NewMonitor returns a monitor starting in the given state. prober may be nil
// when only OS callbacks drive the state.
func NewMonitor(prober Prober, online bool) *Monitor {
	onlineGauge.Set(boolGauge(online))
	return &Monitor{prober: prober, online: online, subs: map[int]chan struct{}{}}
}

// Online returns the last known state.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Set records a new state and reports whether it was an offline→online
// transition. On such a transition every subscriber is notified.
func (m *Monitor) Set(online bool) (becameOnline bool) {
	m.mu.Lock()
	prev := m.online
	m.online = online
	becameOnline = online && !prev
	var notify []chan struct{}
	if becameOnline {
		notify = make([]chan struct{}, 0, len(m.subs))
		for _, ch := range m.subs {
			notify = append(notify, ch)
		}
	}
	m.mu.Unlock()

	onlineGauge.Set(boolGauge(online))
	if prev != online {
		log.Info().Bool("online", online).Msg("connectivity_changed")
	}
	for _, ch := range notify {
		// Buffered with capacity 1: a pending edge already covers this one.
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return becameOnline
}

// Subscribe returns a channel receiving one value per became-online edge
// (coalesced while unread) and a function that ends the subscription.
func (m *Monitor) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = ch
	m.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
		})
	}
}

// Check probes reachability and records the result. Without a prober the
// current state is returned unchanged.
func (m *Monitor) Check(ctx context.Context) bool {
	if m.prober == nil {
		return m.Online()
	}
	online := m.prober.Probe(ctx)
	m.Set(online)
	return online
}

// Foreground is called when the app returns to the foreground; background
// polling may have been suspended, so the state is re-probed.
func (m *Monitor) Foreground(ctx context.Context) bool {
	online := m.Check(ctx)
	log.Debug().Bool("online", online).Msg("connectivity_foreground_check")
	return online
}

// Run probes every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) {
	if m.prober == nil || interval <= 0 {
		<-ctx.Done()
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	m.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.Check(ctx)
		}
	}
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
