package cli

import (
	stdcontext "context"
	"time"

	"github.com/Paintersrp/reap/internal/api"
	"github.com/Paintersrp/reap/internal/engine"
	"github.com/Paintersrp/reap/internal/host"
)

// controlAPI adapts the engine to the api.Controller contract. The memory
// host retains the last published result set so /results reflects what the
// tracker has reconciled since the query.
type controlAPI struct {
	parts parts
	mem   *host.MemoryHost
}

func newControlAPI(p parts, mem *host.MemoryHost) *controlAPI {
	return &controlAPI{parts: p, mem: mem}
}

var _ api.Controller = (*controlAPI)(nil)

func (c *controlAPI) Status(_ stdcontext.Context) (*api.StatusReport, error) {
	snap := c.parts.cache.Snapshot()
	return &api.StatusReport{
		SnapshotAt: snap.TakenAt(),
		Processes:  snap.Len(),
		Tracked:    c.parts.tracker.Len(),
	}, nil
}

func (c *controlAPI) Query(ctx stdcontext.Context, term string) (*api.QueryReport, error) {
	views := c.parts.query.Execute(ctx, term)
	publishResults(c.mem, views)

	snap := c.parts.cache.Snapshot()
	report := &api.QueryReport{
		Term:        term,
		GeneratedAt: time.Now(),
		SnapshotAt:  snap.TakenAt(),
		Results:     make([]api.QueryResult, 0, len(views)),
	}
	for _, view := range views {
		report.Results = append(report.Results, api.QueryResult{
			ID:       view.ID,
			Title:    view.Title,
			Subtitle: view.Subtitle,
			Icon:     view.Icon,
			Tails:    view.Tails,
			Score:    view.Score,
			KillPID:  view.KillPID,
		})
	}
	return report, nil
}

func (c *controlAPI) Kill(ctx stdcontext.Context, pid int32) (*api.KillResult, error) {
	if err := c.parts.killer.Kill(ctx, pid); err != nil {
		return nil, err
	}
	return &api.KillResult{PID: pid, CompletedAt: time.Now()}, nil
}

func (c *controlAPI) Results(_ stdcontext.Context) ([]api.ResultEntry, error) {
	entries := c.mem.Entries()
	out := make([]api.ResultEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, api.ResultEntry{
			ID:       entry.ResultID,
			Title:    entry.Title,
			Subtitle: entry.Subtitle,
			Tails:    entry.Tails,
		})
	}
	return out, nil
}

// publishResults hands a freshly emitted result set to the memory host.
func publishResults(mem *host.MemoryHost, views []engine.ResultView) {
	entries := make([]host.Entry, 0, len(views))
	for _, view := range views {
		entries = append(entries, host.Entry{
			ResultID: view.ID,
			Title:    view.Title,
			Subtitle: view.Subtitle,
			Tails:    view.Tails,
		})
	}
	mem.Accept(entries)
}
