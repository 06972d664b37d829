// Package cache is a TTL cache for derived query results (statistics, lists)
// computed from the local store. It never holds authoritative data: every
// entry can be dropped at any time and recomputed.
//
// Entries are owned by a user and stored per (owner, key), so two users
// caching the same query never share or evict each other's entry. Expiry is
// checked lazily on read; Sweep (or RunSweeper) reclaims expired entries that
// are never read again.
package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Key identifies a query. Kind names the query ("stats.volume"); Params is a
// canonical encoding of its parameters. Key is comparable and safe as a map
// key.
type Key struct {
	Kind   string
	Params string
}

func (k Key) String() string {
	if k.Params == "" {
		return k.Kind
	}
	return k.Kind + "(" + k.Params + ")"
}

// NewKey builds a Key. Every parameter is encoded with its dynamic type and
// length, so NewKey("q", 1) and NewKey("q", "1") differ, and so do
// NewKey("q", "a,b") and NewKey("q", "a", "b").
func NewKey(kind string, params ...any) Key {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte(',')
		}
		v := fmt.Sprint(p)
		fmt.Fprintf(&b, "%T:%d:%s", p, len(v), v)
	}
	return Key{Kind: kind, Params: b.String()}
}

// slot is the storage key: the owning user plus the query key.
type slot struct {
	owner string
	key   Key
}

type entry struct {
	owner   string
	data    any
	created time.Time
	ttl     time.Duration
}

func (e entry) expired(now time.Time) bool {
	return e.ttl > 0 && now.Sub(e.created) >= e.ttl
}

// Cache is safe for concurrent use.
type Cache struct {
	name string
	ttl  time.Duration
	now  func() time.Time

	mu      sync.Mutex
	entries map[slot]entry
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option { return func(c *Cache) { c.now = now } }

// WithName sets the cache label used in metrics.
func WithName(name string) Option { return func(c *Cache) { c.name = name } }

// New returns a cache whose entries live for ttl by default. A ttl <= 0 means
// entries never expire on their own.
func New(ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{name: "query", ttl: ttl, now: time.Now, entries: map[slot]entry{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Set stores data under key for userID with the default TTL.
func (c *Cache) Set(key Key, data any, userID string) {
	c.SetWithTTL(key, data, userID, c.ttl)
}

// SetWithTTL stores data under key for userID with an explicit TTL.
func (c *Cache) SetWithTTL(key Key, data any, userID string, ttl time.Duration) {
	c.mu.Lock()
	c.entries[slot{owner: userID, key: key}] = entry{owner: userID, data: data, created: c.now(), ttl: ttl}
	n := len(c.entries)
	c.mu.Unlock()
	entriesGauge.WithLabelValues(c.name).Set(float64(n))
}

// Get returns the data userID stored under key when it has not expired.
// Expired or mismatched entries are evicted.
func (c *Cache) Get(key Key, userID string) (any, bool) {
	sk := slot{owner: userID, key: key}
	c.mu.Lock()
	e, ok := c.entries[sk]
	if ok && (e.owner != userID || e.expired(c.now())) {
		delete(c.entries, sk)
		c.mu.Unlock()
		evictionsTotal.WithLabelValues(c.name, "stale").Inc()
		lookupsTotal.WithLabelValues(c.name, "miss").Inc()
		return nil, false
	}
	c.mu.Unlock()

	if !ok {
		lookupsTotal.WithLabelValues(c.name, "miss").Inc()
		return nil, false
	}
	lookupsTotal.WithLabelValues(c.name, "hit").Inc()
	return e.data, true
}

// GetAs is Get with a type assertion; a value of another type is a miss.
func GetAs[T any](c *Cache, key Key, userID string) (T, bool) {
	v, ok := c.Get(key, userID)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Invalidate evicts every entry of userID, or every entry when userID is "".
func (c *Cache) Invalidate(userID string) int {
	c.mu.Lock()
	var n int
	if userID == "" {
		n = len(c.entries)
		c.entries = map[slot]entry{}
	} else {
		for k, e := range c.entries {
			if e.owner == userID {
				delete(c.entries, k)
				n++
			}
		}
	}
	left := len(c.entries)
	c.mu.Unlock()
	c.evicted("invalidate", n, left)
	return n
}

// InvalidateKind evicts the entries of userID whose key kind is one of kinds.
// An empty userID matches every owner.
func (c *Cache) InvalidateKind(userID string, kinds ...string) int {
	if len(kinds) == 0 {
		return 0
	}
	want := make(map[string]struct{}, len(kinds))
	for _, k := range kinds {
		want[k] = struct{}{}
	}
	c.mu.Lock()
	n := 0
	for k, e := range c.entries {
		if userID != "" && e.owner != userID {
			continue
		}
		if _, hit := want[k.key.Kind]; hit {
			delete(c.entries, k)
			n++
		}
	}
	left := len(c.entries)
	c.mu.Unlock()
	c.evicted("invalidate", n, left)
	return n
}

// Sweep evicts every expired entry and returns how many went.
func (c *Cache) Sweep() int {
	now := c.now()
	c.mu.Lock()
	n := 0
	for k, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, k)
			n++
		}
	}
	left := len(c.entries)
	c.mu.Unlock()
	c.evicted("sweep", n, left)
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (c *Cache) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			c.Sweep()
		}
	}
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) evicted(reason string, n, left int) {
	if n > 0 {
		evictionsTotal.WithLabelValues(c.name, reason).Add(float64(n))
	}
	entriesGauge.WithLabelValues(c.name).Set(float64(left))
}

var (
	lookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fitsync_cache_lookups_total",
		Help: "Cache lookups by result (hit|miss).",
	}, []string{"cache", "result"})
	evictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fitsync_cache_evictions_total",
		Help: "Evicted cache entries by reason.",
	}, []string{"cache", "reason"})
	entriesGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fitsync_cache_entries",
		Help: "Entries currently stored.",
	}, []string{"cache"})
)

func init() {
	prometheus.MustRegister(lookupsTotal, evictionsTotal, entriesGauge)
}
