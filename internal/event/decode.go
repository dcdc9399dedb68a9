package event

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// UnmarshalJSON accepts any JSON object. Fields holding an unexpected type
// are coerced where the intent is clear and left at their zero value
// otherwise, so a syntactically valid record is never rejected for its shape.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "decode event record")
	}
	*r = Record{
		ID:               text(raw["id"]),
		Timestamp:        text(raw["timestamp"]),
		Category:         text(raw["eventCategory"]),
		Type:             text(raw["eventType"]),
		MachineID:        text(raw["machineId"]),
		StateBefore:      text(raw["stateBefore"]),
		StateAfter:       text(raw["stateAfter"]),
		Source:           text(raw["source"]),
		Destination:      text(raw["destination"]),
		Success:          flag(raw["success"]),
		ErrorMessage:     text(raw["errorMessage"]),
		ProcessingTimeMs: number(raw["processingTimeMs"]),
	}
	if details, ok := raw["eventDetails"].(map[string]any); ok {
		r.Details = details
	}
	return nil
}

func text(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

func flag(v any) *bool {
	var b bool
	switch val := v.(type) {
	case bool:
		b = val
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(val))
		if err != nil {
			return nil
		}
		b = parsed
	default:
		return nil
	}
	return &b
}

func number(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		if n, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return n
		}
	}
	return 0
}
