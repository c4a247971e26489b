package procs

import (
	"context"

	"github.com/shirou/gopsutil/v4/process"
)

// UnknownOwner is reported when the owning user cannot be determined.
const UnknownOwner = "N/A"

// Info carries the per-process fields gathered in a single enumeration pass.
type Info struct {
	PID      int32
	Name     string
	Exe      string
	Owner    string
	Resident uint64
}

// Enumerator lists the processes currently visible to the agent.
type Enumerator interface {
	Enumerate(ctx context.Context) ([]Info, error)
}

// SystemEnumerator reads the live process table via gopsutil.
type SystemEnumerator struct{}

// NewSystemEnumerator returns an enumerator backed by the host process table.
func NewSystemEnumerator() *SystemEnumerator {
	return &SystemEnumerator{}
}

// Enumerate performs one listing pass. A process that cannot be inspected
// (exited mid-listing, access denied, zombie) is skipped; only a failure to
// obtain the listing itself is returned as an error.
func (e *SystemEnumerator) Enumerate(ctx context.Context) ([]Info, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]Info, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil || name == "" {
			continue
		}

		info := Info{PID: p.Pid, Name: name, Owner: UnknownOwner}

		if exe, err := p.ExeWithContext(ctx); err == nil {
			info.Exe = exe
		}
		if owner, err := p.UsernameWithContext(ctx); err == nil && owner != "" {
			info.Owner = owner
		}
		if mem, err := p.MemoryInfoWithContext(ctx); err == nil && mem != nil {
			info.Resident = mem.RSS
		}

		infos = append(infos, info)
	}

	return infos, nil
}
