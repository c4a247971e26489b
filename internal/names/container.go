package names

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/client"

	"github.com/Paintersrp/reap/internal/procs"
)

const containerMapMaxAge = 60 * time.Second

// containerStrategy names processes that are container init processes after
// the container they belong to. The pid-to-name map is rebuilt lazily and at
// most once per containerMapMaxAge, so a full refresh pass costs a single
// docker round-trip.
type containerStrategy struct {
	clientOnce sync.Once
	cli        *client.Client
	clientErr  error

	mu      sync.Mutex
	byPID   map[int32]string
	fetched time.Time
}

func newContainerStrategy() *containerStrategy {
	return &containerStrategy{}
}

func (s *containerStrategy) Name() string { return "container" }

func (s *containerStrategy) getClient() (*client.Client, error) {
	s.clientOnce.Do(func() {
		cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
		if err != nil {
			s.clientErr = err
			return
		}
		s.cli = cli
	})
	return s.cli, s.clientErr
}

func (s *containerStrategy) Lookup(ctx context.Context, info procs.Info) (string, bool) {
	byPID := s.pidMap(ctx)
	if len(byPID) == 0 {
		return "", false
	}
	name, ok := byPID[info.PID]
	return name, ok
}

func (s *containerStrategy) pidMap(ctx context.Context) map[int32]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.byPID != nil && time.Since(s.fetched) < containerMapMaxAge {
		return s.byPID
	}

	cli, err := s.getClient()
	if err != nil {
		return s.byPID
	}

	containers, err := cli.ContainerList(ctx, types.ContainerListOptions{})
	if err != nil {
		return s.byPID
	}

	byPID := make(map[int32]string, len(containers))
	for _, c := range containers {
		inspect, err := cli.ContainerInspect(ctx, c.ID)
		if err != nil || inspect.State == nil {
			continue
		}
		name := containerDisplayName(c.Names)
		if name == "" {
			continue
		}
		byPID[int32(inspect.State.Pid)] = name
	}

	s.byPID = byPID
	s.fetched = time.Now()
	return s.byPID
}

func containerDisplayName(names []string) string {
	for _, name := range names {
		trimmed := strings.TrimPrefix(name, "/")
		if trimmed != "" {
			return trimmed
		}
	}
	return ""
}
