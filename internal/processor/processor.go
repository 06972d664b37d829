// Package processor drains the outbox against the remote backend.
//
// A drain is triggered by a fixed polling interval, by the became-online edge
// of the connectivity monitor, and on demand (Trigger). At most one drain runs
// at a time. A drain walks the pending items in FIFO order: an applied item is
// removed, a failed item is marked (attempts+1, last error) and the pass
// stops there, so a later item is never applied ahead of an earlier failing
// one. The failed item is retried on the next trigger, with no limit on the
// number of attempts. Each item is re-checked before it is pushed, and an
// item that vanished mid-pass (queue cleared, sign-out) ends the pass.
package processor

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-fitness-sync/internal/domain"
	"github.com/tbourn/go-fitness-sync/internal/remote"
	"github.com/tbourn/go-fitness-sync/internal/repo"
)

// Queue is the outbox as seen by the processor.
type Queue interface {
	ListPending(ctx context.Context) ([]domain.SyncQueueItem, error)
	Pending(ctx context.Context, id int64) (bool, error)
	Remove(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, errText string) error
	Len(ctx context.Context) (int, error)
}

// Connectivity is the monitor as seen by the processor.
type Connectivity interface {
	Online() bool
	Subscribe() (<-chan struct{}, func())
}

// Remote applies one item on the backend.
type Remote interface {
	Apply(ctx context.Context, item domain.SyncQueueItem) error
}

// SkipReason explains why a drain did nothing.
type SkipReason string

const (
	SkipNone     SkipReason = ""
	SkipDisabled SkipReason = "disabled"
	SkipOffline  SkipReason = "offline"
	SkipBusy     SkipReason = "busy"
)

// DrainResult summarizes one drain.
type DrainResult struct {
	Applied   int        `json:"applied"`
	Failed    int        `json:"failed"`
	Skipped   SkipReason `json:"skipped,omitempty"`
	Remaining int        `json:"remaining"`
	LastError string     `json:"last_error,omitempty"`
	// Users lists the owners of the applied items.
	Users []string `json:"users,omitempty"`
}

// Options configures a Processor.
type Options struct {
	// Interval is the polling period. Defaults to 30s.
	Interval time.Duration
	// OnDrained runs after every drain that applied or failed an item.
	OnDrained func(DrainResult)
	// Disabled starts the processor disabled (no signed-in user).
	Disabled bool
}

// Processor is the sync loop.
type Processor struct {
	queue     Queue
	conn      Connectivity
	remote    Remote
	interval  time.Duration
	onDrained func(DrainResult)

	enabled  atomic.Bool
	syncing  atomic.Bool
	queueLen atomic.Int64
	kick     chan struct{}
}

// New returns a Processor. Run starts its loop.
func New(q Queue, c Connectivity, r Remote, opts Options) *Processor {
	interval := opts.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	p := &Processor{
		queue:     q,
		conn:      c,
		remote:    r,
		interval:  interval,
		onDrained: opts.OnDrained,
		kick:      make(chan struct{}, 1),
	}
	p.enabled.Store(!opts.Disabled)
	return p
}

// IsSyncing reports whether a drain is in flight.
func (p *Processor) IsSyncing() bool { return p.syncing.Load() }

// QueueLength is the number of pending items as of the last refresh.
func (p *Processor) QueueLength() int { return int(p.queueLen.Load()) }

// Enabled reports whether triggers may start drains.
func (p *Processor) Enabled() bool { return p.enabled.Load() }

// SetEnabled turns the processor on or off. Disabling stops future drains;
// a drain already in flight runs to completion.
func (p *Processor) SetEnabled(on bool) {
	if p.enabled.Swap(on) != on {
		log.Info().Bool("enabled", on).Msg("sync_processor_toggled")
	}
	if on {
		p.Trigger()
	}
}

// Trigger requests a drain from the Run loop without waiting for it.
func (p *Processor) Trigger() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

// Run drains on every trigger until ctx is done.
func (p *Processor) Run(ctx context.Context) error {
	edges, unsubscribe := p.conn.Subscribe()
	defer unsubscribe()

	t := time.NewTicker(p.interval)
	defer t.Stop()

	p.RefreshLength(ctx)
	p.drainLogged(ctx, "startup")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			p.drainLogged(ctx, "interval")
		case <-edges:
			p.drainLogged(ctx, "online")
		case <-p.kick:
			p.drainLogged(ctx, "manual")
		}
	}
}

func (p *Processor) drainLogged(ctx context.Context, trigger string) {
	res, err := p.Drain(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Str("trigger", trigger).Msg("sync_drain_error")
		return
	}
	if res.Applied > 0 || res.Failed > 0 {
		log.Info().
			Str("trigger", trigger).
			Int("applied", res.Applied).
			Int("failed", res.Failed).
			Int("remaining", res.Remaining).
			Msg("sync_drain")
	}
}

// Drain applies pending items in order until the queue is empty or an item
// fails. It is a no-op when disabled, offline or already draining.
func (p *Processor) Drain(ctx context.Context) (DrainResult, error) {
	if !p.enabled.Load() {
		return p.skip(SkipDisabled), nil
	}
	if !p.conn.Online() {
		return p.skip(SkipOffline), nil
	}
	if !p.syncing.CompareAndSwap(false, true) {
		return p.skip(SkipBusy), nil
	}
	inFlight.Set(1)
	start := time.Now()
	defer func() {
		p.syncing.Store(false)
		inFlight.Set(0)
		drainDuration.Observe(time.Since(start).Seconds())
	}()

	var res DrainResult
	items, err := p.queue.ListPending(ctx)
	if err != nil {
		return res, err
	}
	p.setLength(len(items))

	users := map[string]struct{}{}
	for _, it := range items {
		still, err := p.queue.Pending(ctx, it.ID)
		if err != nil {
			return res, err
		}
		if !still {
			p.cleared(it)
			break
		}
		applyErr := p.remote.Apply(ctx, it)
		if applyErr != nil {
			if ctx.Err() != nil {
				// Shutting down: the item did not fail on its own merits.
				return res, ctx.Err()
			}
			if err := p.queue.MarkFailed(ctx, it.ID, applyErr.Error()); err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					p.cleared(it)
					break
				}
				return res, err
			}
			permanent := remote.IsPermanent(applyErr)
			itemsFailed.WithLabelValues(permanentLabel(permanent)).Inc()
			log.Warn().
				Err(applyErr).
				Int64("item_id", it.ID).
				Str("table", string(it.Table)).
				Str("operation", string(it.Operation)).
				Int("attempts", it.Attempts+1).
				Bool("permanent", permanent).
				Msg("sync_item_failed")
			res.Failed = 1
			res.LastError = applyErr.Error()
			break
		}
		removeErr := p.queue.Remove(ctx, it.ID)
		if removeErr != nil && !errors.Is(removeErr, repo.ErrNotFound) {
			return res, removeErr
		}
		itemsApplied.Inc()
		res.Applied++
		if u := it.PayloadField("user_id"); u != "" {
			users[u] = struct{}{}
		}
		if removeErr != nil {
			p.cleared(it)
			break
		}
	}

	res.Remaining = p.RefreshLength(ctx)
	for u := range users {
		res.Users = append(res.Users, u)
	}
	sort.Strings(res.Users)

	if p.onDrained != nil && (res.Applied > 0 || res.Failed > 0) {
		p.onDrained(res)
	}
	return res, nil
}

// cleared logs a pass that stopped because its snapshot went stale.
func (p *Processor) cleared(it domain.SyncQueueItem) {
	log.Info().
		Int64("item_id", it.ID).
		Str("table", string(it.Table)).
		Msg("sync_queue_cleared_mid_drain")
}

// RefreshLength re-reads the queue length and returns it.
func (p *Processor) RefreshLength(ctx context.Context) int {
	n, err := p.queue.Len(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("sync_queue_length_unavailable")
		return p.QueueLength()
	}
	p.setLength(n)
	return n
}

func (p *Processor) setLength(n int) {
	p.queueLen.Store(int64(n))
	queueLength.Set(float64(n))
}

func (p *Processor) skip(reason SkipReason) DrainResult {
	drainsSkipped.WithLabelValues(string(reason)).Inc()
	return DrainResult{Skipped: reason, Remaining: p.QueueLength()}
}

func permanentLabel(b bool) string {
	if b {
		return "permanent"
	}
	return "transient"
}
