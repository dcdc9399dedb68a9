// Package source abstracts where event days come from: the local event-store
// directory or a remote evlog server.
package source

import (
	"context"
	"time"

	"github.com/statewalk/evlog/internal/event"
	"github.com/statewalk/evlog/internal/eventstore"
	"github.com/statewalk/evlog/internal/logtail"
	"github.com/statewalk/evlog/internal/stats"
)

// Day is the recovered content of one daily event file.
type Day struct {
	Date    string         `json:"date"`
	Records []event.Record `json:"events"`
	Dropped int            `json:"dropped"`
	Partial bool           `json:"partial"`
}

// Source reads event days, listings and statistics.
//
// Events returns an error wrapping eventstore.ErrNotFound when the day has no
// file and eventstore.ErrInvalidArgument when date is malformed.
type Source interface {
	Events(ctx context.Context, date string) (Day, error)
	Files(ctx context.Context) ([]eventstore.File, error)
	Stats(ctx context.Context) (stats.Report, error)
}

// Local reads straight from an event-store directory.
type Local struct {
	Locator       eventstore.Locator
	RetentionDays int
	Now           func() time.Time
}

// NewLocal returns a Local source rooted at dir.
func NewLocal(dir string, retentionDays int) *Local {
	return &Local{Locator: eventstore.New(dir), RetentionDays: retentionDays, Now: time.Now}
}

// Events reads and recovers the file for date.
func (l *Local) Events(ctx context.Context, date string) (Day, error) {
	if err := ctx.Err(); err != nil {
		return Day{}, err
	}
	day, err := eventstore.ParseDate(date)
	if err != nil {
		return Day{}, err
	}
	path, err := l.Locator.Resolve(day)
	if err != nil {
		return Day{}, err
	}
	res, err := logtail.Read(path)
	if err != nil {
		return Day{}, err
	}
	return Day{
		Date:    eventstore.FormatDate(day),
		Records: res.Records,
		Dropped: res.Dropped,
		Partial: res.Partial,
	}, nil
}

// Files lists the event files present in the store.
func (l *Local) Files(ctx context.Context) ([]eventstore.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return l.Locator.List(), nil
}

// Stats aggregates the whole store.
func (l *Local) Stats(ctx context.Context) (stats.Report, error) {
	if err := ctx.Err(); err != nil {
		return stats.Report{}, err
	}
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	return stats.Collect(l.Locator, l.RetentionDays, now()), nil
}
