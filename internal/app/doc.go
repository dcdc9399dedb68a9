// Package app is the command line of evlog.
//
// # Overview
//
// The package builds a cobra command tree and wires configuration, logging
// and an event source into it. It is the composition root: every other
// package is reached from here.
//
// # Commands
//
//	evlog [date]          detailed events of one date (default today)
//	  --filter V          keep events whose category, type or machine id is V
//	  --where EXPR        keep events satisfying a CEL expression
//	  --last N            keep the trailing N events
//	  --stats             print store statistics instead
//	evlog summary [date]  condensed, time-sorted table
//	evlog files           list the event files
//	evlog browse [date]   interactive viewer
//	evlog serve           read-only HTTP API over the local store
//	evlog schema          JSON Schema of an event record
//
// Persistent flags --dir, --remote, --config and --log-level apply to every
// command. With --remote, events, files and statistics come from another
// evlog serve instance instead of the local directory.
//
// # Setup
//
// Before any command runs:
//
//  1. config.Load reads config.toml, .env and EVLOG_* variables
//  2. flags override the loaded values
//  3. logging.Init points slog at stderr
//  4. the source is either source.Local or a client.Client
//
// # Exit Status
//
// Execute returns 0 on success, including a date with no events file. An
// invalid argument (bad date, non-numeric --last, unparseable --where)
// returns 2. Anything else returns 1.
package app
