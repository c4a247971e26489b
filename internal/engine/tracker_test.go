package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Paintersrp/reap/internal/host"
)

type fakeHost struct {
	mu        sync.Mutex
	updatable map[string]bool
	checkErr  map[string]error
	updateErr map[string]error
	applied   map[string]bool
	updates   []host.ResultUpdate
	notes     []string
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		updatable: make(map[string]bool),
		checkErr:  make(map[string]error),
		updateErr: make(map[string]error),
		applied:   make(map[string]bool),
	}
}

func (h *fakeHost) Notify(_ context.Context, message string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.notes = append(h.notes, message)
	return nil
}

func (h *fakeHost) UpdatableResult(_ context.Context, id string) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.checkErr[id]; err != nil {
		return false, err
	}
	return h.updatable[id], nil
}

func (h *fakeHost) UpdateResult(_ context.Context, update host.ResultUpdate) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.updates = append(h.updates, update)
	if err := h.updateErr[update.ResultID]; err != nil {
		return false, err
	}
	applied, ok := h.applied[update.ResultID]
	if !ok {
		return true, nil
	}
	return applied, nil
}

func (h *fakeHost) updateCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.updates)
}

func snapshotOf(recs ...ProcessRecord) *Snapshot {
	m := make(map[int32]ProcessRecord, len(recs))
	for _, rec := range recs {
		m[rec.PID] = rec
	}
	return NewSnapshot(time.Now(), m)
}

func TestTrackerReconcileUpdatesLiveResults(t *testing.T) {
	t.Parallel()

	h := newFakeHost()
	h.updatable["r1"] = true

	tr := NewTracker(h, nil)
	tr.Track("r1", 42)

	rec := ProcessRecord{PID: 42, RawName: "nginx", FriendlyName: "nginx", Exe: "/usr/sbin/nginx", ResidentBytes: 2 << 20}
	tr.Reconcile(context.Background(), snapshotOf(rec))

	if got := tr.Len(); got != 1 {
		t.Fatalf("tracked results = %d, want 1", got)
	}
	if len(h.updates) != 1 {
		t.Fatalf("host updates = %d, want 1", len(h.updates))
	}
	update := h.updates[0]
	if update.ResultID != "r1" {
		t.Fatalf("update id = %q, want r1", update.ResultID)
	}
	if update.Title != "nginx (PID: 42)" {
		t.Fatalf("update title = %q", update.Title)
	}
	if len(update.Tails) != 2 || update.Tails[0] != "PID: 42" || update.Tails[1] != "2.0 MB" {
		t.Fatalf("update tails = %v", update.Tails)
	}
}

func TestTrackerReconcilePrunesMissingProcess(t *testing.T) {
	t.Parallel()

	h := newFakeHost()
	h.updatable["gone"] = true

	tr := NewTracker(h, nil)
	tr.Track("gone", 99)

	tr.Reconcile(context.Background(), snapshotOf())

	if got := tr.Len(); got != 0 {
		t.Fatalf("tracked results = %d, want 0", got)
	}
	if len(h.updates) != 0 {
		t.Fatalf("host updates = %d, want 0 for a vanished process", len(h.updates))
	}
}

func TestTrackerReconcilePrunesWhenHostDroppedResult(t *testing.T) {
	t.Parallel()

	h := newFakeHost()
	// Result id never registered with the host, so it is not updatable.

	tr := NewTracker(h, nil)
	tr.Track("dropped", 7)

	rec := ProcessRecord{PID: 7, RawName: "sshd", FriendlyName: "sshd"}
	tr.Reconcile(context.Background(), snapshotOf(rec))

	if got := tr.Len(); got != 0 {
		t.Fatalf("tracked results = %d, want 0", got)
	}
}

func TestTrackerReconcileDoesNotRetryFailedUpdates(t *testing.T) {
	t.Parallel()

	h := newFakeHost()
	h.updatable["flaky"] = true
	h.updateErr["flaky"] = errors.New("host unavailable")

	tr := NewTracker(h, nil)
	tr.Track("flaky", 11)

	rec := ProcessRecord{PID: 11, RawName: "redis", FriendlyName: "redis"}
	snap := snapshotOf(rec)

	tr.Reconcile(context.Background(), snap)
	if got := tr.Len(); got != 0 {
		t.Fatalf("tracked results after failure = %d, want 0", got)
	}
	first := h.updateCount()

	// A later cycle must not touch the pruned result again.
	tr.Reconcile(context.Background(), snap)
	if got := h.updateCount(); got != first {
		t.Fatalf("host updates after second cycle = %d, want %d", got, first)
	}
}

func TestTrackerReconcileIdempotentOnStableSnapshot(t *testing.T) {
	t.Parallel()

	events := make(chan Event, 4)
	h := newFakeHost()
	h.updatable["r1"] = true

	tr := NewTracker(h, events)
	tr.Track("r1", 42)

	rec := ProcessRecord{PID: 42, RawName: "nginx", FriendlyName: "nginx"}
	snap := snapshotOf(rec)

	tr.Reconcile(context.Background(), snap)
	if got := tr.Len(); got != 1 {
		t.Fatalf("tracked results after first cycle = %d, want 1", got)
	}
	first := h.updateCount()
	<-events

	// A second cycle over the same snapshot refreshes the result again and
	// removes nothing.
	tr.Reconcile(context.Background(), snap)
	if got := tr.Len(); got != 1 {
		t.Fatalf("tracked results after second cycle = %d, want 1", got)
	}
	if got := h.updateCount(); got != first+1 {
		t.Fatalf("host updates after second cycle = %d, want %d", got, first+1)
	}
	evt := <-events
	if evt.Removed != 0 || evt.Tracked != 1 {
		t.Fatalf("second cycle counts = tracked %d removed %d, want 1/0", evt.Tracked, evt.Removed)
	}
}

func TestTrackerReconcilePrunesOnUpdatableCheckError(t *testing.T) {
	t.Parallel()

	h := newFakeHost()
	h.checkErr["r1"] = errors.New("rpc closed")

	tr := NewTracker(h, nil)
	tr.Track("r1", 5)

	rec := ProcessRecord{PID: 5, RawName: "bash", FriendlyName: "bash"}
	tr.Reconcile(context.Background(), snapshotOf(rec))

	if got := tr.Len(); got != 0 {
		t.Fatalf("tracked results = %d, want 0", got)
	}
	if len(h.updates) != 0 {
		t.Fatalf("host updates = %d, want 0 when the check fails", len(h.updates))
	}
}

func TestTrackerClearSupersedesResultSet(t *testing.T) {
	t.Parallel()

	h := newFakeHost()
	h.updatable["old"] = true

	tr := NewTracker(h, nil)
	tr.Track("old", 3)
	tr.Clear()

	if got := tr.Len(); got != 0 {
		t.Fatalf("tracked results = %d, want 0 after clear", got)
	}

	rec := ProcessRecord{PID: 3, RawName: "cron", FriendlyName: "cron"}
	tr.Reconcile(context.Background(), snapshotOf(rec))
	if len(h.updates) != 0 {
		t.Fatalf("host updates = %d, want 0 after clear", len(h.updates))
	}
}

func TestTrackerReconcileEmitsCounts(t *testing.T) {
	t.Parallel()

	events := make(chan Event, 4)
	h := newFakeHost()
	h.updatable["keep"] = true

	tr := NewTracker(h, events)
	tr.Track("keep", 1)
	tr.Track("lost", 2)

	rec := ProcessRecord{PID: 1, RawName: "dockerd", FriendlyName: "dockerd"}
	tr.Reconcile(context.Background(), snapshotOf(rec))

	select {
	case evt := <-events:
		if evt.Type != EventTypeReconciled {
			t.Fatalf("event type = %q, want %q", evt.Type, EventTypeReconciled)
		}
		if evt.Tracked != 1 || evt.Removed != 1 {
			t.Fatalf("event counts = tracked %d removed %d, want 1/1", evt.Tracked, evt.Removed)
		}
	default:
		t.Fatal("no reconciled event emitted")
	}
}
