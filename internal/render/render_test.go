package render

import (
	"strings"
	"testing"

	"github.com/statewalk/evlog/internal/event"
)

func TestPhrase_TemplateSelection(t *testing.T) {
	tests := []struct {
		name string
		rec  event.Record
		want string
	}{
		{
			name: "registry create",
			rec:  event.Record{Category: "REGISTRY_CREATE"},
			want: "Machine created and registered",
		},
		{
			name: "registry remove",
			rec:  event.Record{Category: "REGISTRY_REMOVE"},
			want: "Machine removed from registry",
		},
		{
			name: "registry rehydrate",
			rec:  event.Record{Category: "REGISTRY_REHYDRATE"},
			want: "Machine rehydrated from offline",
		},
		{
			name: "incoming call",
			rec: event.Record{Category: "WEBSOCKET_IN", Type: "INCOMING_CALL",
				Details: map[string]any{"phoneNumber": "+1-555-1234"}},
			want: "← Received INCOMING_CALL from +1-555-1234",
		},
		{
			name: "incoming call without phone",
			rec:  event.Record{Category: "WEBSOCKET_IN", Type: "INCOMING_CALL"},
			want: "← Received INCOMING_CALL from unknown",
		},
		{
			name: "session progress",
			rec: event.Record{Category: "WEBSOCKET_IN", Type: "SESSION_PROGRESS",
				Details: map[string]any{"ringNumber": 2.0}},
			want: "← Received SESSION_PROGRESS (ring #2)",
		},
		{
			name: "session progress without ring",
			rec:  event.Record{Category: "WEBSOCKET_IN", Type: "SESSION_PROGRESS"},
			want: "← Received SESSION_PROGRESS (ring #0)",
		},
		{
			name: "other inbound",
			rec:  event.Record{Category: "WEBSOCKET_IN", Type: "HANGUP"},
			want: "← Received HANGUP",
		},
		{
			name: "outbound state change",
			rec: event.Record{Category: "WEBSOCKET_OUT", Type: "STATE_CHANGE",
				StateBefore: "IDLE", StateAfter: "RINGING"},
			want: "→ State changed: IDLE → RINGING",
		},
		{
			name: "outbound state change missing states",
			rec:  event.Record{Category: "WEBSOCKET_OUT", Type: "STATE_CHANGE"},
			want: "→ State changed: ? → ?",
		},
		{
			name: "outbound registry create",
			rec:  event.Record{Category: "WEBSOCKET_OUT", Type: "REGISTRY_CREATE"},
			want: "→ Broadcast machine creation",
		},
		{
			name: "other outbound",
			rec:  event.Record{Category: "WEBSOCKET_OUT", Type: "STATS"},
			want: "→ Broadcast STATS",
		},
		{
			name: "state change",
			rec:  event.Record{Category: "STATE_CHANGE", StateBefore: "RINGING", StateAfter: "CONNECTED"},
			want: "State transition: RINGING → CONNECTED",
		},
		{
			name: "timeout",
			rec:  event.Record{Category: "TIMEOUT", StateBefore: "RINGING", StateAfter: "IDLE"},
			want: "Timeout fired: RINGING → IDLE",
		},
		{
			name: "default",
			rec:  event.Record{Category: "EVENT_FIRED", Type: "ANSWER"},
			want: "EVENT_FIRED: ANSWER",
		},
		{
			name: "missing category",
			rec:  event.Record{Type: "ANSWER"},
			want: "N/A: ANSWER",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Phrase(tt.rec); got != tt.want {
				t.Fatalf("Phrase = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCondensed(t *testing.T) {
	rec := event.Record{
		Timestamp: "2025-08-18T14:32:15.123",
		Category:  "WEBSOCKET_IN",
		Type:      "INCOMING_CALL",
		MachineID: "call-machine-0001",
		Details:   map[string]any{"phoneNumber": "+1-555-1234"},
	}
	want := "14:32:15 | call-machi | ← Received INCOMING_CALL from +1-555-1234"
	if got := Condensed(rec); got != want {
		t.Fatalf("Condensed = %q, want %q", got, want)
	}

	short := event.Record{Category: "TIMEOUT", StateBefore: "A", StateAfter: "B", MachineID: "m1"}
	if got := Condensed(short); got != "N/A | m1         | Timeout fired: A → B" {
		t.Fatalf("Condensed short = %q", got)
	}

	anon := event.Record{Timestamp: "2025-08-18T01:02:03", Category: "REGISTRY_CREATE"}
	if got := Condensed(anon); got != "01:02:03 | N/A        | Machine created and registered" {
		t.Fatalf("Condensed anon = %q", got)
	}
}

func TestSummary_SortsAndCounts(t *testing.T) {
	records := []event.Record{
		{Timestamp: "2025-08-18T10:00:02", MachineID: "b", Category: "REGISTRY_REMOVE"},
		{Timestamp: "2025-08-18T10:00:01", MachineID: "a", Category: "REGISTRY_CREATE"},
	}
	out := Summary(records)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("Summary lines = %d, want 6:\n%s", len(lines), out)
	}
	if lines[0] != SummaryHeader() || lines[1] != Rule() || lines[4] != Rule() {
		t.Fatalf("Summary framing wrong:\n%s", out)
	}
	if !strings.HasPrefix(lines[2], "10:00:01 | a") || !strings.HasPrefix(lines[3], "10:00:02 | b") {
		t.Fatalf("Summary not sorted:\n%s", out)
	}
	if lines[5] != "Total events: 2" {
		t.Fatalf("Summary total = %q", lines[5])
	}
	if len(Rule()) != 70 {
		t.Fatalf("Rule width = %d, want 70", len(Rule()))
	}
}

func TestDetailed_AllFields(t *testing.T) {
	failed := false
	rec := event.Record{
		Timestamp:        "2025-08-18T14:32:15.5",
		Category:         "STATE_CHANGE",
		Type:             "ANSWER",
		MachineID:        "call-001",
		StateBefore:      "RINGING",
		StateAfter:       "CONNECTED",
		Source:           "ws",
		Destination:      "machine",
		Success:          &failed,
		ErrorMessage:     "late answer",
		ProcessingTimeMs: 4.5,
		Details:          map[string]any{"ringNumber": 3.0},
	}
	want := strings.Join([]string{
		Separator(),
		"Time: 14:32:15",
		"Category: STATE_CHANGE",
		"Type: ANSWER",
		"Machine: call-001",
		"Transition: RINGING → CONNECTED",
		"Flow: ws → machine",
		"Error: late answer",
		"Processing: 4.5ms",
		"Details: {\n  \"ringNumber\": 3\n}",
	}, "\n")
	if got := Detailed(rec); got != want {
		t.Fatalf("Detailed =\n%s\nwant\n%s", got, want)
	}
}

func TestDetailed_OmitsAbsentFields(t *testing.T) {
	failed := false
	tests := []struct {
		name    string
		rec     event.Record
		want    []string
		missing []string
	}{
		{
			name:    "minimal record",
			rec:     event.Record{},
			want:    []string{"Time: N/A", "Category: N/A", "Type: N/A", "Success"},
			missing: []string{"Machine:", "Transition:", "Flow:", "Processing:", "Details:"},
		},
		{
			name:    "half transition and zero processing",
			rec:     event.Record{Timestamp: "not-a-time", StateBefore: "A", Source: "ws"},
			want:    []string{"Time: not-a-time"},
			missing: []string{"Transition:", "Flow:", "Processing:"},
		},
		{
			name: "failure without message",
			rec:  event.Record{Success: &failed},
			want: []string{"Error: Unknown error"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detailed(tt.rec)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Fatalf("Detailed missing %q:\n%s", w, got)
				}
			}
			for _, m := range tt.missing {
				if strings.Contains(got, m) {
					t.Fatalf("Detailed should omit %q:\n%s", m, got)
				}
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("  hello world  ", 8); got != "hello..." {
		t.Fatalf("Truncate = %q, want hello...", got)
	}
	if got := Truncate("abc", 10); got != "abc" {
		t.Fatalf("Truncate short = %q", got)
	}
	if got := Truncate("abcdef", 2); got != "ab" {
		t.Fatalf("Truncate tiny = %q", got)
	}
}
