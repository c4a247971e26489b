package engine

import (
	"fmt"

	"github.com/Paintersrp/reap/internal/names"
)

// RecordTitle renders the primary line for a process result.
func RecordTitle(rec ProcessRecord) string {
	return fmt.Sprintf("%s (PID: %d)", rec.FriendlyName, rec.PID)
}

// RecordSubtitle renders the display path, truncated at the application
// bundle boundary when the executable lives inside one. Processes without an
// accessible executable path fall back to the raw name.
func RecordSubtitle(rec ProcessRecord) string {
	if rec.Exe == "" {
		return rec.RawName
	}
	if app, ok := names.TruncateAtBundle(rec.Exe); ok {
		return app
	}
	return rec.Exe
}

// RecordTails renders the auxiliary tail texts: pid and resident memory.
func RecordTails(rec ProcessRecord) []string {
	return []string{
		fmt.Sprintf("PID: %d", rec.PID),
		FormatMemory(rec.ResidentBytes),
	}
}

// FormatMemory renders resident memory in megabytes with one decimal place.
func FormatMemory(bytes uint64) string {
	return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
}
