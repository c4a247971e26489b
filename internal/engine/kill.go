package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/Paintersrp/reap/internal/host"
	"github.com/Paintersrp/reap/internal/procs"
)

// Killer executes kill actions and reports the outcome to the UI host. Kill
// requests do not take the snapshot lock; a race with a refresh is resolved
// by the next tick observing the process's absence.
type Killer struct {
	cache     *Cache
	host      host.Host
	terminate func(ctx context.Context, pid int32) error
}

// NewKiller constructs a killer over the cache and host.
func NewKiller(cache *Cache, h host.Host) *Killer {
	return &Killer{
		cache:     cache,
		host:      h,
		terminate: procs.Terminate,
	}
}

// Kill requests termination of the process and notifies the host with a
// message distinguishing not-found, access-denied and other failures. The
// original error is returned to the caller; none of the outcomes are fatal
// to the plugin.
func (k *Killer) Kill(ctx context.Context, pid int32) error {
	label := k.label(pid)
	err := k.terminate(ctx, pid)

	var message string
	switch {
	case err == nil:
		message = fmt.Sprintf("Killed %s", label)
	case errors.Is(err, procs.ErrNotFound):
		message = fmt.Sprintf("%s is no longer running", label)
	case errors.Is(err, procs.ErrAccessDenied):
		message = fmt.Sprintf("Permission denied killing %s", label)
	default:
		message = fmt.Sprintf("Failed to kill %s: %v", label, err)
	}

	if k.host != nil {
		_ = k.host.Notify(ctx, message)
	}
	return err
}

func (k *Killer) label(pid int32) string {
	if k.cache != nil {
		if rec, ok := k.cache.Snapshot().Get(pid); ok {
			return RecordTitle(rec)
		}
	}
	return fmt.Sprintf("process %d", pid)
}
