// Package logtail recovers event records from the backend's JSON-lines files.
//
// # Overview
//
// The state-machine backend appends one JSON object per event to a daily
// file. The files are "loosely" line delimited: most writers emit one object
// per line, but pretty-printed objects span several lines, and a file read
// while the writer is mid-append ends with a fragment that has not closed yet.
// This package turns whatever bytes are on disk into a slice of
// event.Record without ever failing on content.
//
// # Framing
//
// Framer is a single-pass state machine over the byte stream:
//
//	1. Outside an object, every byte except '{' is skipped. Stray or
//	   duplicated closing braces between records are ignored here.
//	2. Inside an object it tracks brace depth plus string and escape state,
//	   so a '}' inside a quoted value never closes the record.
//	3. When depth returns to zero the candidate is decoded. Success emits a
//	   record; failure counts it as dropped.
//	4. At end of input an unclosed candidate is reported as Partial and
//	   discarded.
//
// A raw newline inside a string, or a decode failure, means the candidate is
// torn. The framer then rescans from the first '{' that starts a line inside
// the abandoned bytes, so one torn record does not swallow the records that
// follow it. Nested objects in pretty-printed output are indented and are
// never picked as a restart point.
//
// Example usage:
//
//	res, err := logtail.Read("event-store/events-2025-08-18.jsonl")
//	if err != nil {
//		return err
//	}
//	fmt.Println(len(res.Records), "events,", res.Dropped, "malformed")
//
// # Error Handling
//
// Read returns an error only when the file cannot be opened or read; the
// wrapped error still satisfies errors.Is(err, os.ErrNotExist). Malformed
// content only lowers the record count.
//
// # Concurrency
//
// Each call reads the file once from the start. A writer appending at the
// same time can at worst leave a partial trailing object, which is dropped.
// Nothing is cached between calls.
package logtail
