package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/statewalk/evlog/internal/api"
	"github.com/statewalk/evlog/internal/eventstore"
	"github.com/statewalk/evlog/internal/source"
	"github.com/statewalk/evlog/internal/stats"
)

// Ensure Client implements source.Source at compile time.
var _ source.Source = (*Client)(nil)

// Client talks to an evlog server.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultHTTPBind  = "127.0.0.1:7488"
	defaultUserAgent = "evlog/0.1"
	requestTimeout   = 10 * time.Second
)

// NewClient builds a Client for the server listening on bind (host:port or URL).
func NewClient(bind string) (*Client, error) {
	base, err := parseBaseURL(bind)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// EventsQuery configures /api/events requests. Filtering happens on the server.
type EventsQuery struct {
	Date   string
	Filter string
	Where  string
	Last   int
}

// FetchEvents retrieves one day's events, optionally filtered server-side.
func (c *Client) FetchEvents(ctx context.Context, query EventsQuery) (api.EventsResponse, error) {
	if c == nil {
		return api.EventsResponse{}, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	if date := strings.TrimSpace(query.Date); date != "" {
		values.Set(api.ParamDate, date)
	}
	if query.Filter != "" {
		values.Set(api.ParamFilter, query.Filter)
	}
	if where := strings.TrimSpace(query.Where); where != "" {
		values.Set(api.ParamWhere, where)
	}
	if query.Last > 0 {
		values.Set(api.ParamLast, strconv.Itoa(query.Last))
	}
	rel := &url.URL{Path: "/api/events", RawQuery: values.Encode()}
	var payload api.EventsResponse
	if err := c.doURL(ctx, http.MethodGet, rel, &payload); err != nil {
		return api.EventsResponse{}, err
	}
	return payload, nil
}

// FetchSummary retrieves the condensed summary lines for date.
func (c *Client) FetchSummary(ctx context.Context, date string) (api.SummaryResponse, error) {
	if c == nil {
		return api.SummaryResponse{}, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	if date = strings.TrimSpace(date); date != "" {
		values.Set(api.ParamDate, date)
	}
	rel := &url.URL{Path: "/api/summary", RawQuery: values.Encode()}
	var payload api.SummaryResponse
	if err := c.doURL(ctx, http.MethodGet, rel, &payload); err != nil {
		return api.SummaryResponse{}, err
	}
	return payload, nil
}

// FetchHealth checks that the server is up.
func (c *Client) FetchHealth(ctx context.Context) (api.HealthResponse, error) {
	if c == nil {
		return api.HealthResponse{}, fmt.Errorf("client is nil")
	}
	var payload api.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", &payload); err != nil {
		return api.HealthResponse{}, err
	}
	return payload, nil
}

// Events implements source.Source.
func (c *Client) Events(ctx context.Context, date string) (source.Day, error) {
	resp, err := c.FetchEvents(ctx, EventsQuery{Date: date})
	if err != nil {
		return source.Day{}, err
	}
	return resp.Day, nil
}

// Files implements source.Source.
func (c *Client) Files(ctx context.Context) ([]eventstore.File, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload api.FilesResponse
	if err := c.do(ctx, http.MethodGet, "/api/files", &payload); err != nil {
		return nil, err
	}
	return payload.Files, nil
}

// Stats implements source.Source.
func (c *Client) Stats(ctx context.Context) (stats.Report, error) {
	if c == nil {
		return stats.Report{}, fmt.Errorf("client is nil")
	}
	var payload api.StatsResponse
	if err := c.do(ctx, http.MethodGet, "/api/stats", &payload); err != nil {
		return stats.Report{}, err
	}
	return payload, nil
}

func (c *Client) do(ctx context.Context, method, path string, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, method, rel, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return statusError(rel, resp)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// statusError maps 404 and 400 replies onto the store's sentinel errors so
// remote and local sources fail the same way.
func statusError(rel *url.URL, resp *http.Response) error {
	msg := fmt.Sprintf("api %s returned status %d", rel.Path, resp.StatusCode)
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload api.ErrorResponse
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		msg += ": " + payload.Error
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return errors.Wrap(eventstore.ErrNotFound, msg)
	case http.StatusBadRequest:
		return errors.Wrap(eventstore.ErrInvalidArgument, msg)
	default:
		return errors.New(msg)
	}
}

func parseBaseURL(bind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(bind)
	if trimmed == "" {
		trimmed = defaultHTTPBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse http_bind %q: %w", bind, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
