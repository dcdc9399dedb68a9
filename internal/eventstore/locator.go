// Package eventstore locates the daily event files written by the
// state-machine backend. It only reads directory listings; writing, rotating
// and deleting files is the writer's job.
package eventstore

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	// DefaultDir is the conventional store directory relative to the working directory.
	DefaultDir = "event-store"

	filePrefix = "events-"
	fileExt    = ".jsonl"
	dateLayout = "2006-01-02"
)

var (
	// ErrNotFound reports that no file exists for the requested date.
	ErrNotFound = errors.New("events file not found")
	// ErrInvalidArgument reports a caller-supplied value that cannot be used.
	ErrInvalidArgument = errors.New("invalid argument")
)

// File describes one events-<date>.jsonl file on disk.
type File struct {
	Name string    `json:"name"`
	Path string    `json:"path"`
	Date time.Time `json:"date"`
	Size int64     `json:"size"`
}

// Locator resolves dates to event files under Dir.
type Locator struct {
	Dir string
}

// New returns a Locator rooted at dir, defaulting to DefaultDir.
func New(dir string) Locator {
	if strings.TrimSpace(dir) == "" {
		dir = DefaultDir
	}
	return Locator{Dir: dir}
}

// FileName returns the conventional file name for date.
func FileName(date time.Time) string {
	return filePrefix + date.Format(dateLayout) + fileExt
}

// FormatDate renders date the way file names and CLI arguments spell it.
func FormatDate(date time.Time) string {
	return date.Format(dateLayout)
}

// Today returns the calendar date of now in its own location.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// ParseDate parses a YYYY-MM-DD argument.
func ParseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	t, err := time.ParseInLocation(dateLayout, trimmed, time.Local)
	if err != nil {
		return time.Time{}, errors.Wrapf(ErrInvalidArgument, "date %q must be YYYY-MM-DD", value)
	}
	return t, nil
}

// PathFor returns the expected path of the file for date, whether or not it exists.
func (l Locator) PathFor(date time.Time) string {
	return filepath.Join(l.Dir, FileName(date))
}

// Resolve returns the path of the file for date, or ErrNotFound.
func (l Locator) Resolve(date time.Time) (string, error) {
	path := l.PathFor(date)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", errors.Wrapf(ErrNotFound, "%s", path)
		}
		return "", errors.Wrapf(err, "stat %s", path)
	}
	if info.IsDir() {
		return "", errors.Wrapf(ErrNotFound, "%s is a directory", path)
	}
	return path, nil
}

// List enumerates every dated event file, sorted by name. A missing or
// unreadable directory yields an empty list.
func (l Locator) List() []File {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return nil
	}
	files := make([]File, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		date, ok := dateFromName(entry.Name())
		if !ok {
			continue
		}
		f := File{
			Name: entry.Name(),
			Path: filepath.Join(l.Dir, entry.Name()),
			Date: date,
		}
		if info, err := entry.Info(); err == nil {
			f.Size = info.Size()
		}
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files
}

// Range returns the listed files dated within [from, to], inclusive.
func (l Locator) Range(from, to time.Time) []File {
	from, to = Today(from), Today(to)
	if to.Before(from) {
		from, to = to, from
	}
	var out []File
	for _, f := range l.List() {
		if f.Date.Before(from) || f.Date.After(to) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Expired returns files older than the retention window ending at now.
// The writer owns rotation; this only reports what it should have removed.
func (l Locator) Expired(now time.Time, retentionDays int) []File {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := Today(now).AddDate(0, 0, -retentionDays)
	var out []File
	for _, f := range l.List() {
		if f.Date.Before(cutoff) {
			out = append(out, f)
		}
	}
	return out
}

func dateFromName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileExt) {
		return time.Time{}, false
	}
	raw := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileExt)
	t, err := time.ParseInLocation(dateLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
