package engine

import (
	"context"
	"sync"
	"time"

	"github.com/Paintersrp/reap/internal/metrics"
	"github.com/Paintersrp/reap/internal/procs"
)

const defaultRefreshInterval = time.Second

// NameResolver maps an enumerated process to a display name. It must never
// fail; failures degrade inside the implementation.
type NameResolver interface {
	Resolve(ctx context.Context, info procs.Info) string
}

// CacheConfig assembles the collaborators of a Cache.
type CacheConfig struct {
	Enumerator procs.Enumerator
	Resolver   NameResolver
	Tracker    *Tracker
	Events     chan<- Event
	Interval   time.Duration
}

// Cache owns the authoritative process snapshot. A single background task
// rebuilds the snapshot on a fixed period and hands it to the tracker for
// reconciliation. Snapshot reads and the snapshot swap share one mutex;
// everything slow (enumeration, name resolution, host calls) happens outside
// it.
type Cache struct {
	enumerator procs.Enumerator
	resolver   NameResolver
	tracker    *Tracker
	events     chan<- Event
	interval   time.Duration

	mu      sync.Mutex
	current *Snapshot

	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

// NewCache constructs a cache. The tracker may be nil when reconciliation is
// not wanted (one-shot listings).
func NewCache(cfg CacheConfig) *Cache {
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	return &Cache{
		enumerator: cfg.Enumerator,
		resolver:   cfg.Resolver,
		tracker:    cfg.Tracker,
		events:     cfg.Events,
		interval:   interval,
		done:       make(chan struct{}),
	}
}

// Start launches the background refresher. It performs an immediate first
// refresh so queries have a snapshot to read without waiting a full period.
func (c *Cache) Start(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	c.ctx, c.cancel = context.WithCancel(ctx)
	go c.run()
}

func (c *Cache) run() {
	defer close(c.done)

	c.Refresh(c.ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			sendEvent(c.events, EventTypeStopped, "info", "refresher stopped", nil)
			return
		case <-ticker.C:
			c.Refresh(c.ctx)
		}
	}
}

// Refresh performs one full refresh cycle: enumerate, resolve names, install
// the new snapshot, reconcile tracked results. Per-process failures are
// handled by the enumerator; an enumeration failure keeps the previous
// snapshot in place and never stops the loop.
func (c *Cache) Refresh(ctx context.Context) {
	start := time.Now()

	infos, err := c.enumerator.Enumerate(ctx)
	if err != nil {
		sendEvent(c.events, EventTypeError, "error", "process enumeration failed", err)
		return
	}

	records := make(map[int32]ProcessRecord, len(infos))
	for _, info := range infos {
		records[info.PID] = ProcessRecord{
			PID:           info.PID,
			RawName:       info.Name,
			Exe:           info.Exe,
			Owner:         info.Owner,
			ResidentBytes: info.Resident,
			FriendlyName:  c.resolver.Resolve(ctx, info),
		}
	}
	snap := NewSnapshot(time.Now(), records)

	c.mu.Lock()
	c.current = snap
	c.mu.Unlock()

	metrics.ObserveRefresh(snap.Len(), time.Since(start))
	sendEventCounts(c.events, EventTypeRefreshed, "snapshot refreshed", snap.Len(), 0, 0)

	if c.tracker != nil {
		c.tracker.Reconcile(ctx, snap)
	}
}

// Snapshot returns the current snapshot. It is never nil; before the first
// refresh completes an empty snapshot is returned.
func (c *Cache) Snapshot() *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return NewSnapshot(time.Time{}, nil)
	}
	return c.current
}

// Stop halts the refresher and waits for the loop to exit or the context to
// expire. In-flight host calls from the final reconciliation are allowed to
// finish or fail on their own.
func (c *Cache) Stop(ctx context.Context) error {
	var result error
	c.stopOnce.Do(func() {
		if c.cancel == nil {
			return
		}
		c.cancel()
		if ctx == nil {
			ctx = context.Background()
		}
		select {
		case <-c.done:
		case <-ctx.Done():
			result = ctx.Err()
		}
	})
	return result
}
