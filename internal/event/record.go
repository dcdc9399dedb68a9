// Package event defines the records written by the state-machine event store.
package event

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Categories written by the state-machine backend.
const (
	CategoryStateChange       = "STATE_CHANGE"
	CategoryWebsocketIn       = "WEBSOCKET_IN"
	CategoryWebsocketOut      = "WEBSOCKET_OUT"
	CategoryRegistryCreate    = "REGISTRY_CREATE"
	CategoryRegistryRemove    = "REGISTRY_REMOVE"
	CategoryRegistryRehydrate = "REGISTRY_REHYDRATE"
	CategoryTimeout           = "TIMEOUT"
	CategoryEventFired        = "EVENT_FIRED"
	CategoryError             = "ERROR"
)

// Event types that get dedicated summary phrasing.
const (
	TypeIncomingCall    = "INCOMING_CALL"
	TypeSessionProgress = "SESSION_PROGRESS"
	TypeStateChange     = "STATE_CHANGE"
	TypeRegistryCreate  = "REGISTRY_CREATE"
)

// NotAvailable is rendered in place of missing values.
const NotAvailable = "N/A"

const localTimestampLayout = "2006-01-02T15:04:05.999999999"

// Record is one event recovered from an events-<date>.jsonl file.
type Record struct {
	ID               string         `json:"id,omitempty" jsonschema:"description=Opaque event identifier"`
	Timestamp        string         `json:"timestamp,omitempty" jsonschema:"description=ISO-8601 time the event was written"`
	Category         string         `json:"eventCategory,omitempty" jsonschema:"enum=STATE_CHANGE,enum=WEBSOCKET_IN,enum=WEBSOCKET_OUT,enum=REGISTRY_CREATE,enum=REGISTRY_REMOVE,enum=REGISTRY_REHYDRATE,enum=TIMEOUT,enum=EVENT_FIRED,enum=ERROR"`
	Type             string         `json:"eventType,omitempty" jsonschema:"description=Event or message type such as INCOMING_CALL"`
	MachineID        string         `json:"machineId,omitempty" jsonschema:"description=State machine the event belongs to"`
	StateBefore      string         `json:"stateBefore,omitempty"`
	StateAfter       string         `json:"stateAfter,omitempty"`
	Source           string         `json:"source,omitempty"`
	Destination      string         `json:"destination,omitempty"`
	Success          *bool          `json:"success,omitempty" jsonschema:"description=Absent means success"`
	ErrorMessage     string         `json:"errorMessage,omitempty"`
	ProcessingTimeMs float64        `json:"processingTimeMs,omitempty" jsonschema:"minimum=0"`
	Details          map[string]any `json:"eventDetails,omitempty" jsonschema:"description=Free-form key/value payload"`
}

// Succeeded reports the success flag, treating an absent flag as true.
func (r Record) Succeeded() bool {
	return r.Success == nil || *r.Success
}

// Time returns the parsed timestamp when it is a recognizable ISO-8601 value.
func (r Record) Time() (time.Time, bool) {
	t := parseTime(r.Timestamp)
	return t, !t.IsZero()
}

// Clock returns the HH:MM:SS portion following the date/time separator.
func (r Record) Clock() string {
	_, after, ok := strings.Cut(r.Timestamp, "T")
	if !ok || after == "" {
		return NotAvailable
	}
	if len(after) > 8 {
		after = after[:8]
	}
	return after
}

// Detail returns the raw value stored under key in eventDetails.
func (r Record) Detail(key string) (any, bool) {
	if r.Details == nil {
		return nil, false
	}
	v, ok := r.Details[key]
	return v, ok
}

// DetailString formats a detail value as text, returning fallback when absent.
func (r Record) DetailString(key, fallback string) string {
	v, ok := r.Detail(key)
	if !ok || v == nil {
		return fallback
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

// DetailInt returns a numeric detail truncated to an integer.
func (r Record) DetailInt(key string, fallback int) int {
	v, ok := r.Detail(key)
	if !ok {
		return fallback
	}
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return fallback
		}
		return int(val)
	case json.Number:
		if n, err := val.Float64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return int(n)
		}
	}
	return fallback
}

// SortByTimestamp returns a copy of records ordered by timestamp text.
// Records without a timestamp sort first; ties keep file order.
func SortByTimestamp(records []Record) []Record {
	if len(records) == 0 {
		return nil
	}
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})
	return sorted
}

func parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(localTimestampLayout, value, time.Local); err == nil {
		return t
	}
	return time.Time{}
}
