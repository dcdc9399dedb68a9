// Package filter narrows record sequences. Every function returns a new
// slice and leaves its input untouched.
package filter

import (
	"github.com/statewalk/evlog/internal/event"
)

// Query bundles the filters a caller asked for. Zero values disable a stage.
type Query struct {
	// Value matches category, type or machine id.
	Value string
	// Where is a CEL expression evaluated per record.
	Where string
	// Last keeps only the trailing N records when positive.
	Last int
}

// Match keeps records whose category, type or machine id equals value.
// Any one field matching is enough; an empty value keeps everything.
func Match(records []event.Record, value string) []event.Record {
	if value == "" {
		return clone(records)
	}
	out := make([]event.Record, 0, len(records))
	for _, r := range records {
		if r.Category == value || r.Type == value || r.MachineID == value {
			out = append(out, r)
		}
	}
	return out
}

// Last returns the final n records in their original order. n <= 0, or n
// beyond the sequence length, returns the whole sequence.
func Last(records []event.Record, n int) []event.Record {
	if n <= 0 || n >= len(records) {
		return clone(records)
	}
	return clone(records[len(records)-n:])
}

// Apply runs Match, then the Where expression, then Last.
func Apply(records []event.Record, q Query) ([]event.Record, error) {
	out := Match(records, q.Value)
	if q.Where != "" {
		expr, err := Compile(q.Where)
		if err != nil {
			return nil, err
		}
		out = expr.Filter(out)
	}
	return Last(out, q.Last), nil
}

func clone(records []event.Record) []event.Record {
	if records == nil {
		return nil
	}
	out := make([]event.Record, len(records))
	copy(out, records)
	return out
}
