// Package render turns event records into the text shown by the CLI, the
// TUI and the HTTP summary endpoint. Output is plain text; colour is added by
// callers that know they are writing to a terminal.
package render

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/statewalk/evlog/internal/event"
)

const (
	machineWidth = 10
	ruleWidth    = 70
	blockWidth   = 60
)

// Phrase returns the one-line description of r chosen by its category.
func Phrase(r event.Record) string {
	category := r.Category
	switch {
	case strings.Contains(category, event.CategoryRegistryCreate):
		return "Machine created and registered"
	case strings.Contains(category, event.CategoryRegistryRemove):
		return "Machine removed from registry"
	case strings.Contains(category, event.CategoryRegistryRehydrate):
		return "Machine rehydrated from offline"
	case strings.Contains(category, event.CategoryWebsocketIn):
		switch r.Type {
		case event.TypeIncomingCall:
			return "← Received INCOMING_CALL from " + r.DetailString("phoneNumber", "unknown")
		case event.TypeSessionProgress:
			return fmt.Sprintf("← Received SESSION_PROGRESS (ring #%d)", r.DetailInt("ringNumber", 0))
		default:
			return "← Received " + r.Type
		}
	case strings.Contains(category, event.CategoryWebsocketOut):
		switch r.Type {
		case event.TypeStateChange:
			return "→ State changed: " + transition(r)
		case event.TypeRegistryCreate:
			return "→ Broadcast machine creation"
		default:
			return "→ Broadcast " + r.Type
		}
	case strings.Contains(category, event.CategoryStateChange):
		return "State transition: " + transition(r)
	case strings.Contains(category, event.CategoryTimeout):
		return "Timeout fired: " + transition(r)
	default:
		return orNA(category) + ": " + r.Type
	}
}

// Condensed renders r as "<time> | <machine> | <phrase>".
func Condensed(r event.Record) string {
	machine := padRight(clip(orNA(r.MachineID), machineWidth), machineWidth)
	return r.Clock() + " | " + machine + " | " + Phrase(r)
}

// SummaryHeader is the column header printed above condensed lines.
func SummaryHeader() string {
	return "Time     | Machine    | Event Summary"
}

// Rule is the horizontal separator used by the summary table.
func Rule() string {
	return strings.Repeat("-", ruleWidth)
}

// Separator opens every detailed block.
func Separator() string {
	return strings.Repeat("=", blockWidth)
}

// SummaryLines sorts records by timestamp and renders one condensed line each.
func SummaryLines(records []event.Record) []string {
	sorted := event.SortByTimestamp(records)
	lines := make([]string, 0, len(sorted))
	for _, r := range sorted {
		lines = append(lines, Condensed(r))
	}
	return lines
}

// Summary renders the complete chronological table including the total.
func Summary(records []event.Record) string {
	var b strings.Builder
	b.WriteString(SummaryHeader())
	b.WriteString("\n")
	b.WriteString(Rule())
	b.WriteString("\n")
	for _, line := range SummaryLines(records) {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(Rule())
	b.WriteString("\n")
	fmt.Fprintf(&b, "Total events: %d\n", len(records))
	return b.String()
}

// Detailed renders every populated field of r on its own line, starting
// with the block separator.
func Detailed(r event.Record) string {
	lines := []string{
		Separator(),
		"Time: " + displayTime(r),
		"Category: " + orNA(r.Category),
		"Type: " + orNA(r.Type),
	}
	if r.MachineID != "" {
		lines = append(lines, "Machine: "+r.MachineID)
	}
	if r.StateBefore != "" && r.StateAfter != "" {
		lines = append(lines, "Transition: "+r.StateBefore+" → "+r.StateAfter)
	}
	if r.Source != "" && r.Destination != "" {
		lines = append(lines, "Flow: "+r.Source+" → "+r.Destination)
	}
	if r.Succeeded() {
		lines = append(lines, "Success")
	} else {
		msg := r.ErrorMessage
		if msg == "" {
			msg = "Unknown error"
		}
		lines = append(lines, "Error: "+msg)
	}
	if r.ProcessingTimeMs > 0 {
		lines = append(lines, "Processing: "+strconv.FormatFloat(r.ProcessingTimeMs, 'f', -1, 64)+"ms")
	}
	if len(r.Details) > 0 {
		if data, err := json.MarshalIndent(r.Details, "", "  "); err == nil {
			lines = append(lines, "Details: "+string(data))
		}
	}
	return strings.Join(lines, "\n")
}

func displayTime(r event.Record) string {
	if r.Timestamp == "" {
		return event.NotAvailable
	}
	if t, ok := r.Time(); ok {
		return t.Format("15:04:05")
	}
	return r.Timestamp
}

func transition(r event.Record) string {
	before, after := r.StateBefore, r.StateAfter
	if before == "" {
		before = "?"
	}
	if after == "" {
		after = "?"
	}
	return before + " → " + after
}

func orNA(value string) string {
	if value == "" {
		return event.NotAvailable
	}
	return value
}
