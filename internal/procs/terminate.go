package procs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/shirou/gopsutil/v4/process"
)

var (
	// ErrNotFound indicates the target process no longer exists.
	ErrNotFound = errors.New("process not found")
	// ErrAccessDenied indicates the caller lacks permission to signal the target.
	ErrAccessDenied = errors.New("permission denied")
)

// Terminate requests OS-level termination of the process identified by pid.
// Errors are classified so callers can report not-found and access-denied
// outcomes distinctly.
func Terminate(ctx context.Context, pid int32) error {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return fmt.Errorf("%w: pid %d", ErrNotFound, pid)
	}

	if err := p.KillWithContext(ctx); err != nil {
		return classifyTerminateError(pid, err)
	}
	return nil
}

func classifyTerminateError(pid int32, err error) error {
	switch {
	case errors.Is(err, process.ErrorProcessNotRunning), errors.Is(err, syscall.ESRCH), errors.Is(err, os.ErrProcessDone):
		return fmt.Errorf("%w: pid %d", ErrNotFound, pid)
	case errors.Is(err, syscall.EPERM), errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w: pid %d", ErrAccessDenied, pid)
	default:
		return fmt.Errorf("terminate pid %d: %w", pid, err)
	}
}
