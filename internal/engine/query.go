package engine

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
)

const (
	scoreNameMatch = 100
	scoreDefault   = 50

	// DefaultIcon is the icon reference attached to every emitted result.
	DefaultIcon = "assets/process.png"
)

// ResultView is one scored search result produced for the UI host. KillPID is
// the action payload of the result's kill action.
type ResultView struct {
	ID       string
	Title    string
	Subtitle string
	Icon     string
	Tails    []string
	Score    int
	KillPID  int32
}

// Query filters and scores the current snapshot, registering every emitted
// result with the tracker for subsequent reconciliation.
type Query struct {
	cache   *Cache
	tracker *Tracker
	events  chan<- Event
	newID   func() string
}

// NewQuery constructs a query engine over a cache and tracker.
func NewQuery(cache *Cache, tracker *Tracker, events chan<- Event) *Query {
	return &Query{
		cache:   cache,
		tracker: tracker,
		events:  events,
		newID:   uuid.NewString,
	}
}

// Execute runs a search against the current snapshot. The previous result
// set is discarded from tracking first; an empty term lists every process.
// Ordering is by score descending, ties retaining snapshot enumeration
// order.
func (q *Query) Execute(ctx context.Context, term string) []ResultView {
	q.tracker.Clear()

	snap := q.cache.Snapshot()
	needle := strings.ToLower(strings.TrimSpace(term))

	var results []ResultView
	for _, rec := range snap.Records() {
		score, ok := scoreRecord(rec, needle)
		if !ok {
			continue
		}
		view := ResultView{
			ID:       q.newID(),
			Title:    RecordTitle(rec),
			Subtitle: RecordSubtitle(rec),
			Icon:     DefaultIcon,
			Tails:    RecordTails(rec),
			Score:    score,
			KillPID:  rec.PID,
		}
		results = append(results, view)
		q.tracker.Track(view.ID, rec.PID)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	sendEventCounts(q.events, EventTypeQuery, "query executed", snap.Len(), len(results), 0)
	return results
}

// scoreRecord matches a record against the lowercased search term. Name
// matches outrank path-only matches; an empty term matches everything at the
// default score.
func scoreRecord(rec ProcessRecord, needle string) (int, bool) {
	if needle == "" {
		return scoreDefault, true
	}
	if containsFold(rec.RawName, needle) || containsFold(rec.FriendlyName, needle) {
		return scoreNameMatch, true
	}
	if containsFold(rec.Exe, needle) {
		return scoreDefault, true
	}
	return 0, false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}
