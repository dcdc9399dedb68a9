// Package api defines the JSON payloads exchanged by the evlog server and client.
package api

import (
	"github.com/statewalk/evlog/internal/eventstore"
	"github.com/statewalk/evlog/internal/source"
	"github.com/statewalk/evlog/internal/stats"
)

// Query parameter names accepted by /api/events and /api/summary.
const (
	ParamDate   = "date"
	ParamFilter = "filter"
	ParamLast   = "last"
	ParamWhere  = "where"
)

// HealthResponse mirrors /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the body of every 4xx and 5xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FilesResponse mirrors /api/files.
type FilesResponse struct {
	Files []eventstore.File `json:"files"`
}

// EventsResponse mirrors /api/events. Total counts the events after any
// filter or last-N selection was applied on the server.
type EventsResponse struct {
	source.Day
	Total int `json:"total"`
}

// SummaryResponse mirrors /api/summary.
type SummaryResponse struct {
	Date  string   `json:"date"`
	Lines []string `json:"lines"`
	Total int      `json:"total"`
}

// StatsResponse mirrors /api/stats.
type StatsResponse = stats.Report
