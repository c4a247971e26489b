package host

import (
	"context"
	"sync"
)

// Entry is one result slot held by a MemoryHost.
type Entry struct {
	ResultID string
	Title    string
	Subtitle string
	Tails    []string
}

// MemoryHost is an in-process Host that retains the last published result
// set. It backs the HTTP API's /results view and the test suites.
type MemoryHost struct {
	mu            sync.Mutex
	entries       map[string]*Entry
	order         []string
	notifications []string
}

// NewMemoryHost returns an empty in-memory host.
func NewMemoryHost() *MemoryHost {
	return &MemoryHost{entries: make(map[string]*Entry)}
}

// Accept replaces the held result set with a freshly emitted one.
func (h *MemoryHost) Accept(entries []Entry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = make(map[string]*Entry, len(entries))
	h.order = make([]string, 0, len(entries))
	for i := range entries {
		entry := entries[i]
		h.entries[entry.ResultID] = &entry
		h.order = append(h.order, entry.ResultID)
	}
}

// Drop discards a single result, as a UI would when reclaiming a slot.
func (h *MemoryHost) Drop(resultID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.entries[resultID]; !ok {
		return
	}
	delete(h.entries, resultID)
	for i, id := range h.order {
		if id == resultID {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
}

// Entries returns the held results in publication order.
func (h *MemoryHost) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Entry, 0, len(h.order))
	for _, id := range h.order {
		if entry, ok := h.entries[id]; ok {
			out = append(out, *entry)
		}
	}
	return out
}

// Notifications returns every message notified so far.
func (h *MemoryHost) Notifications() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.notifications...)
}

// Notify records the message.
func (h *MemoryHost) Notify(_ context.Context, message string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.notifications = append(h.notifications, message)
	return nil
}

// UpdatableResult reports whether the result is still held.
func (h *MemoryHost) UpdatableResult(_ context.Context, resultID string) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.entries[resultID]
	return ok, nil
}

// UpdateResult applies the update to the held entry.
func (h *MemoryHost) UpdateResult(_ context.Context, update ResultUpdate) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	entry, ok := h.entries[update.ResultID]
	if !ok {
		return false, nil
	}
	entry.Title = update.Title
	entry.Subtitle = update.Subtitle
	entry.Tails = append([]string(nil), update.Tails...)
	return true, nil
}
