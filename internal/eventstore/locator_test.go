package eventstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", name, err)
	}
}

func TestPathFor_UsesNamingConvention(t *testing.T) {
	loc := New("/var/lib/events")
	date := time.Date(2025, 8, 17, 23, 59, 0, 0, time.UTC)
	want := filepath.Join("/var/lib/events", "events-2025-08-17.jsonl")
	if got := loc.PathFor(date); got != want {
		t.Fatalf("PathFor = %q, want %q", got, want)
	}
}

func TestNew_DefaultsDir(t *testing.T) {
	if got := New("  ").Dir; got != DefaultDir {
		t.Fatalf("New(blank).Dir = %q, want %q", got, DefaultDir)
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "events-2025-08-18.jsonl", "{}\n")
	loc := New(dir)

	path, err := loc.Resolve(time.Date(2025, 8, 18, 0, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if filepath.Base(path) != "events-2025-08-18.jsonl" {
		t.Fatalf("Resolve = %q", path)
	}

	_, err = loc.Resolve(time.Date(2025, 8, 19, 0, 0, 0, 0, time.Local))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Resolve missing = %v, want ErrNotFound", err)
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate(" 2025-08-17 ")
	if err != nil {
		t.Fatalf("ParseDate returned error: %v", err)
	}
	if FormatDate(got) != "2025-08-17" {
		t.Fatalf("ParseDate = %v", got)
	}

	for _, bad := range []string{"", "2025/08/17", "17-08-2025", "2025-13-01", "today"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("ParseDate(%q) = %v, want ErrInvalidArgument", bad, err)
		}
	}
}

func TestList_FiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "events-2025-08-18.jsonl", "abc")
	writeFile(t, dir, "events-2025-08-17.jsonl", "abcdef")
	writeFile(t, dir, "events-latest.jsonl", "x")
	writeFile(t, dir, "events-2025-08-16.json", "x")
	writeFile(t, dir, "notes.txt", "x")
	if err := os.Mkdir(filepath.Join(dir, "events-2025-08-15.jsonl"), 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	files := New(dir).List()
	if len(files) != 2 {
		t.Fatalf("List returned %d files, want 2: %#v", len(files), files)
	}
	if files[0].Name != "events-2025-08-17.jsonl" || files[1].Name != "events-2025-08-18.jsonl" {
		t.Fatalf("List order = %q, %q", files[0].Name, files[1].Name)
	}
	if files[0].Size != 6 || files[1].Size != 3 {
		t.Fatalf("List sizes = %d, %d; want 6, 3", files[0].Size, files[1].Size)
	}
}

func TestList_MissingDirIsEmpty(t *testing.T) {
	files := New(filepath.Join(t.TempDir(), "absent")).List()
	if len(files) != 0 {
		t.Fatalf("List on missing dir = %#v, want empty", files)
	}
}

func TestRangeAndExpired(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"events-2025-08-01.jsonl",
		"events-2025-08-10.jsonl",
		"events-2025-08-12.jsonl",
		"events-2025-08-18.jsonl",
	} {
		writeFile(t, dir, name, "{}")
	}
	loc := New(dir)

	from := time.Date(2025, 8, 12, 0, 0, 0, 0, time.Local)
	to := time.Date(2025, 8, 10, 15, 0, 0, 0, time.Local)
	got := loc.Range(from, to)
	if len(got) != 2 || got[0].Name != "events-2025-08-10.jsonl" || got[1].Name != "events-2025-08-12.jsonl" {
		t.Fatalf("Range = %#v", got)
	}

	now := time.Date(2025, 8, 18, 9, 0, 0, 0, time.Local)
	expired := loc.Expired(now, 7)
	if len(expired) != 2 || expired[0].Name != "events-2025-08-01.jsonl" || expired[1].Name != "events-2025-08-10.jsonl" {
		t.Fatalf("Expired = %#v", expired)
	}
	if loc.Expired(now, 0) != nil {
		t.Fatalf("Expired with retention 0 should be nil")
	}
}
