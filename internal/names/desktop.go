package names

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/Paintersrp/reap/internal/procs"
)

// DefaultDesktopDirs lists the standard freedesktop application descriptor
// directories, system-wide through user-local.
func DefaultDesktopDirs() []string {
	dirs := []string{
		"/usr/share/applications",
		"/usr/local/share/applications",
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".local", "share", "applications"))
	}
	return dirs
}

type desktopEntryStrategy struct {
	dirs []string
}

// NewDesktopEntryStrategy resolves names by scanning desktop-entry files for
// a reference to the process executable. All directories are scanned; the
// first entry that mentions the executable wins.
func NewDesktopEntryStrategy(dirs []string) Strategy {
	if len(dirs) == 0 {
		dirs = DefaultDesktopDirs()
	}
	return desktopEntryStrategy{dirs: dirs}
}

func (desktopEntryStrategy) Name() string { return "desktop-entry" }

func (s desktopEntryStrategy) Lookup(ctx context.Context, info procs.Info) (string, bool) {
	if info.Exe == "" {
		return "", false
	}
	exeName := filepath.Base(info.Exe)

	for _, dir := range s.dirs {
		if err := ctx.Err(); err != nil {
			return "", false
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".desktop") {
				continue
			}
			content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
			if err != nil {
				continue
			}
			if !bytes.Contains(content, []byte(exeName)) {
				continue
			}
			if name, ok := desktopEntryName(content); ok {
				return name, true
			}
		}
	}
	return "", false
}

func desktopEntryName(content []byte) (string, bool) {
	for _, line := range strings.Split(string(content), "\n") {
		if strings.HasPrefix(line, "Name=") {
			name := strings.TrimSpace(strings.TrimPrefix(line, "Name="))
			if name != "" {
				return name, true
			}
		}
	}
	return "", false
}
