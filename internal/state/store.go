package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/statewalk/evlog/internal/event"
	"github.com/statewalk/evlog/internal/source"
)

// Snapshot represents the day currently shown by the browse viewer.
type Snapshot struct {
	Day                 source.Day
	HasDay              bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the source has failed on repeated reloads.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored day. When err is non-nil the previous day is kept
// but the error is recorded for visibility.
func (s *Store) Update(day *source.Day, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	if day != nil {
		s.snapshot.Day = *day
		s.snapshot.Day.Records = cloneRecords(day.Records)
		s.snapshot.HasDay = true
	} else {
		s.snapshot.Day = source.Day{}
		s.snapshot.HasDay = false
	}
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Day.Records = cloneRecords(s.snapshot.Day.Records)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneRecords(records []event.Record) []event.Record {
	if len(records) == 0 {
		return nil
	}
	dup := make([]event.Record, len(records))
	copy(dup, records)
	return dup
}
