package names

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Paintersrp/reap/internal/procs"
)

func writeDesktopEntry(t *testing.T, dir, file, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, file), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", file, err)
	}
}

func TestDesktopEntryLookup(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDesktopEntry(t, dir, "firefox.desktop", "[Desktop Entry]\nName=Firefox Web Browser\nExec=/usr/lib/firefox/firefox %u\n")
	writeDesktopEntry(t, dir, "editor.desktop", "[Desktop Entry]\nName=Text Editor\nExec=gedit\n")

	s := NewDesktopEntryStrategy([]string{dir})
	name, ok := s.Lookup(context.Background(), procs.Info{PID: 1, Name: "firefox", Exe: "/usr/lib/firefox/firefox"})
	if !ok || name != "Firefox Web Browser" {
		t.Fatalf("lookup = %q, %v", name, ok)
	}
}

func TestDesktopEntryLookupNoMatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDesktopEntry(t, dir, "editor.desktop", "[Desktop Entry]\nName=Text Editor\nExec=gedit\n")

	s := NewDesktopEntryStrategy([]string{dir})
	if name, ok := s.Lookup(context.Background(), procs.Info{PID: 1, Name: "mysqld", Exe: "/usr/sbin/mysqld"}); ok {
		t.Fatalf("lookup = %q, want no match", name)
	}
}

func TestDesktopEntryLookupSkipsMissingDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDesktopEntry(t, dir, "code.desktop", "[Desktop Entry]\nName=Visual Studio Code\nExec=/usr/share/code/code\n")

	s := NewDesktopEntryStrategy([]string{filepath.Join(dir, "does-not-exist"), dir})
	name, ok := s.Lookup(context.Background(), procs.Info{PID: 1, Name: "code", Exe: "/usr/share/code/code"})
	if !ok || name != "Visual Studio Code" {
		t.Fatalf("lookup = %q, %v", name, ok)
	}
}

func TestDesktopEntryLookupIgnoresProcessWithoutExe(t *testing.T) {
	t.Parallel()

	s := NewDesktopEntryStrategy([]string{t.TempDir()})
	if name, ok := s.Lookup(context.Background(), procs.Info{PID: 1, Name: "kthreadd"}); ok {
		t.Fatalf("lookup = %q, want no match without exe", name)
	}
}

func TestDesktopEntryNameParsing(t *testing.T) {
	t.Parallel()

	name, ok := desktopEntryName([]byte("[Desktop Entry]\nComment=A browser\nName=Chromium\n"))
	if !ok || name != "Chromium" {
		t.Fatalf("desktopEntryName = %q, %v", name, ok)
	}
	if name, ok := desktopEntryName([]byte("[Desktop Entry]\nExec=true\n")); ok {
		t.Fatalf("desktopEntryName = %q, want no name", name)
	}
}
