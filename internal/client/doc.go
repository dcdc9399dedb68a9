// Package client provides an HTTP client for the evlog query server.
//
// # Overview
//
// Client mirrors the read-only endpoints served by `evlog serve` and
// implements source.Source, so every command that reads the local event
// store can read a remote one instead (the --remote flag).
//
//	c, err := client.NewClient("10.0.0.7:7488")
//	if err != nil {
//		return err
//	}
//	day, err := c.Events(ctx, "2025-08-18")
//
// # Errors
//
// A 404 reply wraps eventstore.ErrNotFound and a 400 reply wraps
// eventstore.ErrInvalidArgument, with the server's error message appended.
// Other non-2xx replies, transport failures and undecodable bodies are plain
// errors. Every request carries a 10 second timeout on top of the caller's
// context.
//
// # Server-side Filtering
//
// FetchEvents forwards --filter, --where and --last to the server so only the
// matching records cross the wire. Events, used by source.Source callers,
// always fetches the full day.
package client
