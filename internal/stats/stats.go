// Package stats aggregates counts and sizes across every event file in a store.
package stats

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/statewalk/evlog/internal/eventstore"
	"github.com/statewalk/evlog/internal/logtail"
)

// DefaultRetentionDays mirrors the writer's default rotation window.
const DefaultRetentionDays = 7

// FileStats is the per-file part of a Report.
type FileStats struct {
	Name    string `json:"name"`
	Size    int64  `json:"size"`
	Records int    `json:"records"`
	Dropped int    `json:"dropped"`
	Partial bool   `json:"partial"`
}

// Report summarizes a store at one point in time.
type Report struct {
	Location      string      `json:"location"`
	Files         []FileStats `json:"files"`
	TotalRecords  int         `json:"totalRecords"`
	TotalBytes    int64       `json:"totalBytes"`
	RetentionDays int         `json:"retentionDays"`
	Expired       int         `json:"expired"`
}

// Collect reads every event file under loc. Files that disappear or cannot
// be read between listing and reading contribute their size but no records.
func Collect(loc eventstore.Locator, retentionDays int, now time.Time) Report {
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}
	rep := Report{
		Location:      loc.Dir,
		RetentionDays: retentionDays,
		Expired:       len(loc.Expired(now, retentionDays)),
	}
	for _, f := range loc.List() {
		fs := FileStats{Name: f.Name, Size: f.Size}
		res, err := logtail.Read(f.Path)
		if err != nil {
			slog.Warn("stats: skipping unreadable file", "path", f.Path, "error", err)
		}
		fs.Records = len(res.Records)
		fs.Dropped = res.Dropped
		fs.Partial = res.Partial

		rep.Files = append(rep.Files, fs)
		rep.TotalRecords += fs.Records
		rep.TotalBytes += fs.Size
	}
	return rep
}

// FileNames returns the report's file names in listing order.
func (r Report) FileNames() []string {
	names := make([]string, 0, len(r.Files))
	for _, f := range r.Files {
		names = append(names, f.Name)
	}
	return names
}

// KiB returns the total size in kibibytes.
func (r Report) KiB() float64 {
	return float64(r.TotalBytes) / 1024
}

// String renders the report the way the CLI prints it.
func (r Report) String() string {
	var b strings.Builder
	b.WriteString("EventStore Statistics\n")
	b.WriteString(strings.Repeat("=", 40))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Location: %s/\n", strings.TrimSuffix(r.Location, "/"))
	fmt.Fprintf(&b, "Files: %d\n", len(r.Files))
	for _, f := range r.Files {
		fmt.Fprintf(&b, "   - %s\n", f.Name)
	}
	fmt.Fprintf(&b, "Total Events: %d\n", r.TotalRecords)
	fmt.Fprintf(&b, "Total Size: %.1f KB\n", r.KiB())
	fmt.Fprintf(&b, "Retention: %d days (rotation is done by the writer)\n", r.RetentionDays)
	if r.Expired > 0 {
		fmt.Fprintf(&b, "Past retention: %d files\n", r.Expired)
	}
	b.WriteString("Status: Active\n")
	return b.String()
}
