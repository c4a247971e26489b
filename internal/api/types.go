package api

import (
	stdcontext "context"
	"errors"
	"time"
)

// ErrInvalidPID signals a kill request whose pid could not be parsed.
var ErrInvalidPID = errors.New("invalid pid")

// QueryResult mirrors engine.ResultView for API consumers.
type QueryResult struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle"`
	Icon     string   `json:"icon"`
	Tails    []string `json:"tails"`
	Score    int      `json:"score"`
	KillPID  int32    `json:"kill_pid"`
}

// QueryReport aggregates the outcome of one search.
type QueryReport struct {
	Term        string        `json:"term"`
	GeneratedAt time.Time     `json:"generated_at"`
	SnapshotAt  time.Time     `json:"snapshot_at"`
	Results     []QueryResult `json:"results"`
}

// KillResult captures the outcome of a kill operation.
type KillResult struct {
	PID         int32     `json:"pid"`
	CompletedAt time.Time `json:"completed_at"`
}

// StatusReport summarizes the refresher state.
type StatusReport struct {
	SnapshotAt time.Time `json:"snapshot_at"`
	Processes  int       `json:"processes"`
	Tracked    int       `json:"tracked"`
}

// ResultEntry is one host-held result slot as last reconciled.
type ResultEntry struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle"`
	Tails    []string `json:"tails"`
}

// Controller exposes the engine operations required by control servers.
type Controller interface {
	Status(stdcontext.Context) (*StatusReport, error)
	Query(stdcontext.Context, string) (*QueryReport, error)
	Kill(stdcontext.Context, int32) (*KillResult, error)
	Results(stdcontext.Context) ([]ResultEntry, error)
}
