package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/statewalk/evlog/internal/eventstore"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestLocal_Events(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "events-2025-08-18.jsonl",
		"{\"machineId\":\"a\"}\n{\"machineId\":\"b\"}\n}garbage\n{\"machineId\":")

	day, err := NewLocal(dir, 7).Events(context.Background(), "2025-08-18")
	if err != nil {
		t.Fatalf("Events returned error: %v", err)
	}
	if day.Date != "2025-08-18" || len(day.Records) != 2 || !day.Partial {
		t.Fatalf("day = %#v", day)
	}
	if day.Records[1].MachineID != "b" {
		t.Fatalf("second record = %#v", day.Records[1])
	}
}

func TestLocal_EventsErrors(t *testing.T) {
	src := NewLocal(t.TempDir(), 7)

	if _, err := src.Events(context.Background(), "2025-08-18"); !errors.Is(err, eventstore.ErrNotFound) {
		t.Fatalf("missing day error = %v, want ErrNotFound", err)
	}
	if _, err := src.Events(context.Background(), "18/08/2025"); !errors.Is(err, eventstore.ErrInvalidArgument) {
		t.Fatalf("bad date error = %v, want ErrInvalidArgument", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.Events(ctx, "2025-08-18"); !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled error = %v, want context.Canceled", err)
	}
}

func TestLocal_FilesAndStats(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "events-2025-08-17.jsonl", "{}\n{}\n{}\n")
	writeFile(t, dir, "events-2025-08-18.jsonl", "{}\n{}\n{}\n{}\n{}\n")

	src := NewLocal(dir, 7)
	src.Now = func() time.Time { return time.Date(2025, 8, 18, 9, 0, 0, 0, time.Local) }

	files, err := src.Files(context.Background())
	if err != nil || len(files) != 2 {
		t.Fatalf("Files = %v, %v", files, err)
	}

	rep, err := src.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if rep.TotalRecords != 8 || rep.TotalBytes != files[0].Size+files[1].Size {
		t.Fatalf("report = %#v", rep)
	}
}
