package engine

import "time"

// ProcessRecord is one process as observed at a refresh tick. Records are
// immutable; the next tick replaces them wholesale, never in place.
type ProcessRecord struct {
	PID           int32
	RawName       string
	Exe           string
	Owner         string
	ResidentBytes uint64
	FriendlyName  string
}

// Snapshot is a complete, immutable pid-to-record mapping for one refresh
// tick. Readers always observe a snapshot that was fully built before it was
// installed.
type Snapshot struct {
	takenAt time.Time
	records map[int32]ProcessRecord
}

// NewSnapshot wraps a fully built record mapping. The caller relinquishes
// ownership of the map.
func NewSnapshot(takenAt time.Time, records map[int32]ProcessRecord) *Snapshot {
	if records == nil {
		records = map[int32]ProcessRecord{}
	}
	return &Snapshot{takenAt: takenAt, records: records}
}

// TakenAt returns the time the snapshot was assembled.
func (s *Snapshot) TakenAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.takenAt
}

// Len returns the number of processes in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.records)
}

// Get looks up a process by pid.
func (s *Snapshot) Get(pid int32) (ProcessRecord, bool) {
	if s == nil {
		return ProcessRecord{}, false
	}
	rec, ok := s.records[pid]
	return rec, ok
}

// Records returns the snapshot contents. Order follows map enumeration.
func (s *Snapshot) Records() []ProcessRecord {
	if s == nil {
		return nil
	}
	out := make([]ProcessRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	return out
}
