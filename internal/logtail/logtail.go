package logtail

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/statewalk/evlog/internal/event"
)

// Result is the outcome of scanning one log.
type Result struct {
	Records []event.Record
	// Dropped counts candidates that closed (or were abandoned) without being valid JSON.
	Dropped int
	// Partial is set when the input ended inside an unclosed object.
	Partial bool
}

// Framer splits a byte stream into top-level JSON objects. It tracks brace
// depth and string/escape state, so braces inside string values never close
// a record. Feed it with Write and call Flush once the input is exhausted.
type Framer struct {
	buf      []byte
	depth    int
	inString bool
	escaped  bool

	result Result
}

// Write feeds p into the framer. It never fails.
func (f *Framer) Write(p []byte) (int, error) {
	f.feed(p)
	return len(p), nil
}

// Flush settles any unclosed candidate and returns everything recovered so far.
func (f *Framer) Flush() Result {
	for f.depth > 0 {
		rest := f.resyncTail()
		if rest == nil {
			f.result.Partial = true
			f.reset()
			break
		}
		// A column-zero brace inside the open candidate means the candidate
		// was torn and a new record started after it.
		f.result.Dropped++
		f.reset()
		f.feed(rest)
	}
	return f.result
}

func (f *Framer) feed(p []byte) {
	for _, c := range p {
		if f.depth == 0 {
			if c == '{' {
				f.buf = append(f.buf, c)
				f.depth = 1
			}
			continue
		}

		f.buf = append(f.buf, c)
		if f.inString {
			switch {
			case f.escaped:
				f.escaped = false
			case c == '\\':
				f.escaped = true
			case c == '"':
				f.inString = false
			case c == '\n':
				// JSON strings cannot hold raw newlines: the writer stopped mid-value.
				f.abandon()
			}
			continue
		}

		switch c {
		case '"':
			f.inString = true
		case '{':
			f.depth++
		case '}':
			f.depth--
			if f.depth == 0 {
				f.close()
			}
		}
	}
}

func (f *Framer) close() {
	var rec event.Record
	if err := json.Unmarshal(f.buf, &rec); err != nil {
		f.abandon()
		return
	}
	f.result.Records = append(f.result.Records, rec)
	f.reset()
}

// abandon drops the open candidate and rescans from the first record start
// found inside it, if any.
func (f *Framer) abandon() {
	f.result.Dropped++
	rest := f.resyncTail()
	f.reset()
	if rest != nil {
		f.feed(rest)
	}
}

// resyncTail returns a copy of the open candidate from its first column-zero
// '{' after the opening brace, or nil.
func (f *Framer) resyncTail() []byte {
	for i := 1; i < len(f.buf); i++ {
		if f.buf[i] == '{' && f.buf[i-1] == '\n' {
			rest := make([]byte, len(f.buf)-i)
			copy(rest, f.buf[i:])
			return rest
		}
	}
	return nil
}

func (f *Framer) reset() {
	f.buf = f.buf[:0]
	f.depth = 0
	f.inString = false
	f.escaped = false
}

// ScanBytes recovers records from an in-memory log.
func ScanBytes(data []byte) Result {
	var f Framer
	f.feed(data)
	return f.Flush()
}

// Scan recovers records from r. Only read errors are returned; malformed or
// incomplete content lowers the yield instead.
func Scan(r io.Reader) (Result, error) {
	var f Framer
	if _, err := io.Copy(&f, r); err != nil {
		return f.Flush(), fmt.Errorf("read log: %w", err)
	}
	return f.Flush(), nil
}

// Read recovers every record currently in the file at path. The file may be
// appended to concurrently; bytes written after the read are not seen.
func Read(path string) (Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	res, err := Scan(file)
	if err != nil {
		return res, err
	}
	if res.Dropped > 0 || res.Partial {
		slog.Debug("skipped malformed log content",
			"path", path,
			"records", len(res.Records),
			"dropped", res.Dropped,
			"partial", res.Partial,
		)
	}
	return res, nil
}
