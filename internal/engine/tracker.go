package engine

import (
	"context"
	"sync"

	"github.com/Paintersrp/reap/internal/host"
	"github.com/Paintersrp/reap/internal/metrics"
)

// Tracker maintains the set of UI-visible results derived from the last
// query and keeps them synchronized with each new snapshot. A tracked result
// whose process vanished, whose UI slot was reclaimed, or whose host call
// failed is pruned; nothing is ever retried.
type Tracker struct {
	host   host.Host
	events chan<- Event

	mu   sync.Mutex
	pids map[string]int32
}

// NewTracker constructs a tracker bound to a UI host.
func NewTracker(h host.Host, events chan<- Event) *Tracker {
	return &Tracker{
		host:   h,
		events: events,
		pids:   make(map[string]int32),
	}
}

// Clear discards all tracked results. A new query supersedes the old result
// set entirely.
func (t *Tracker) Clear() {
	t.mu.Lock()
	t.pids = make(map[string]int32)
	t.mu.Unlock()
	metrics.SetTrackedResults(0)
}

// Track registers an emitted result id with the pid it represents.
func (t *Tracker) Track(resultID string, pid int32) {
	t.mu.Lock()
	t.pids[resultID] = pid
	n := len(t.pids)
	t.mu.Unlock()
	metrics.SetTrackedResults(n)
}

// Len reports the number of currently tracked results.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pids)
}

// Reconcile synchronizes every tracked result against the snapshot. Host
// calls run outside the tracker lock; the set of tracked ids is fixed at
// entry, so a concurrent query that clears the tracker simply makes the
// removals no-ops.
func (t *Tracker) Reconcile(ctx context.Context, snap *Snapshot) {
	t.mu.Lock()
	tracked := make(map[string]int32, len(t.pids))
	for id, pid := range t.pids {
		tracked[id] = pid
	}
	t.mu.Unlock()

	var stale []string
	for id, pid := range tracked {
		rec, ok := snap.Get(pid)
		if !ok {
			stale = append(stale, id)
			continue
		}

		updatable, err := t.host.UpdatableResult(ctx, id)
		if err != nil {
			metrics.IncHostUpdateFailure()
			stale = append(stale, id)
			continue
		}
		if !updatable {
			stale = append(stale, id)
			continue
		}

		applied, err := t.host.UpdateResult(ctx, host.ResultUpdate{
			ResultID: id,
			Title:    RecordTitle(rec),
			Subtitle: RecordSubtitle(rec),
			Tails:    RecordTails(rec),
		})
		if err != nil || !applied {
			metrics.IncHostUpdateFailure()
			stale = append(stale, id)
		}
	}

	t.mu.Lock()
	for _, id := range stale {
		delete(t.pids, id)
	}
	remaining := len(t.pids)
	t.mu.Unlock()

	metrics.SetTrackedResults(remaining)
	sendEventCounts(t.events, EventTypeReconciled, "results reconciled", snap.Len(), remaining, len(stale))
}
