package names

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Paintersrp/reap/internal/metrics"
	"github.com/Paintersrp/reap/internal/procs"
)

// FallbackName is returned when no name of any kind can be determined.
const FallbackName = "Unknown Process"

const defaultTTL = 60 * time.Second

// Strategy resolves a display name for a process via one platform facility.
// Implementations must swallow their own failures and report ok=false; no
// strategy error ever reaches a caller of Resolver.Resolve.
type Strategy interface {
	Name() string
	Lookup(ctx context.Context, info procs.Info) (string, bool)
}

// Config controls strategy selection and cache behaviour.
type Config struct {
	TTL         time.Duration
	DesktopDirs []string
	Docker      bool
}

// Option adjusts resolver construction.
type Option func(*Resolver)

// WithClock overrides the time source, primarily for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// WithStrategies replaces the platform strategy chain.
func WithStrategies(strategies ...Strategy) Option {
	return func(r *Resolver) {
		r.strategies = strategies
	}
}

type cacheEntry struct {
	friendly  string
	rawName   string
	expiresAt time.Time
}

// Resolver maps processes to human-friendly display names. Results are cached
// per pid for the configured TTL; a cached entry is discarded outright when
// the pid reappears with a different raw name.
type Resolver struct {
	strategies []Strategy
	ttl        time.Duration
	now        func() time.Time

	mu      sync.Mutex
	entries map[int32]cacheEntry
}

// NewResolver builds a resolver with the platform strategy chain for the
// current OS.
func NewResolver(cfg Config, opts ...Option) *Resolver {
	r := &Resolver{
		ttl:     cfg.TTL,
		now:     time.Now,
		entries: make(map[int32]cacheEntry),
	}
	if r.ttl <= 0 {
		r.ttl = defaultTTL
	}

	r.strategies = platformStrategies(cfg)
	if cfg.Docker {
		r.strategies = append(r.strategies, newContainerStrategy())
	}

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns a friendly name for the process. It never fails: on any
// lookup failure it degrades to the executable base name, then to the raw
// process name, then to FallbackName.
func (r *Resolver) Resolve(ctx context.Context, info procs.Info) string {
	now := r.now()

	r.mu.Lock()
	entry, ok := r.entries[info.PID]
	if ok {
		if entry.rawName != info.Name {
			// Pid reuse: a different process now owns this pid.
			delete(r.entries, info.PID)
		} else if now.Before(entry.expiresAt) {
			r.mu.Unlock()
			metrics.IncNameCacheHit()
			return entry.friendly
		}
	}
	r.mu.Unlock()

	metrics.IncNameCacheMiss()
	friendly := r.lookup(ctx, info)

	r.mu.Lock()
	r.entries[info.PID] = cacheEntry{
		friendly:  friendly,
		rawName:   info.Name,
		expiresAt: now.Add(r.ttl),
	}
	r.mu.Unlock()

	return friendly
}

// Invalidate drops the cached entry for a pid.
func (r *Resolver) Invalidate(pid int32) {
	r.mu.Lock()
	delete(r.entries, pid)
	r.mu.Unlock()
}

func (r *Resolver) lookup(ctx context.Context, info procs.Info) string {
	for _, s := range r.strategies {
		if name, ok := safeLookup(ctx, s, info); ok && name != "" {
			return name
		}
	}
	if base := executableBaseName(info.Exe); base != "" {
		return base
	}
	if info.Name != "" {
		return info.Name
	}
	return FallbackName
}

// safeLookup shields the resolver from a misbehaving strategy.
func safeLookup(ctx context.Context, s Strategy, info procs.Info) (name string, ok bool) {
	defer func() {
		if recover() != nil {
			name, ok = "", false
		}
	}()
	return s.Lookup(ctx, info)
}

func executableBaseName(exe string) string {
	if exe == "" {
		return ""
	}
	base := filepath.Base(exe)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}
