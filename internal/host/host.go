package host

import "context"

// ResultUpdate carries the refreshed presentation fields for a tracked
// result.
type ResultUpdate struct {
	ResultID string
	Title    string
	Subtitle string
	Tails    []string
}

// Host is the external UI surface the core talks to. Implementations own the
// presentation of emitted results; the core only pushes updates and asks
// whether a result is still on screen.
type Host interface {
	// Notify surfaces a user-visible message.
	Notify(ctx context.Context, message string) error

	// UpdatableResult reports whether the host still holds the result and
	// accepts updates for it. ok=false means the host discarded it.
	UpdatableResult(ctx context.Context, resultID string) (bool, error)

	// UpdateResult applies refreshed presentation fields to a held result.
	// ok=false means the host rejected the update.
	UpdateResult(ctx context.Context, update ResultUpdate) (bool, error)
}
