package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/statewalk/evlog/internal/api"
	"github.com/statewalk/evlog/internal/event"
	"github.com/statewalk/evlog/internal/eventstore"
	"github.com/statewalk/evlog/internal/filter"
	"github.com/statewalk/evlog/internal/render"
	"github.com/statewalk/evlog/internal/source"
	"github.com/statewalk/evlog/internal/stats"
)

// Handler serves the query endpoints.
type Handler struct {
	src source.Source
	now func() time.Time
}

// NewHandler returns a Handler reading from src. A nil now uses time.Now.
func NewHandler(src source.Source, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{src: src, now: now}
}

// Files lists the event files in the store.
func (h *Handler) Files(c *gin.Context) {
	files, err := h.src.Files(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if files == nil {
		files = []eventstore.File{}
	}
	c.JSON(http.StatusOK, api.FilesResponse{Files: files})
}

// Events returns one day's records after the filter, where and last parameters.
func (h *Handler) Events(c *gin.Context) {
	query, err := h.parseQuery(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	day, err := h.src.Events(c.Request.Context(), h.date(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	records, err := filter.Apply(day.Records, query)
	if err != nil {
		h.fail(c, err)
		return
	}
	if records == nil {
		records = []event.Record{}
	}
	day.Records = records
	c.JSON(http.StatusOK, api.EventsResponse{Day: day, Total: len(records)})
}

// Summary returns the condensed, time-sorted lines for one day.
func (h *Handler) Summary(c *gin.Context) {
	day, err := h.src.Events(c.Request.Context(), h.date(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, api.SummaryResponse{
		Date:  day.Date,
		Lines: render.SummaryLines(day.Records),
		Total: len(day.Records),
	})
}

// Stats returns the aggregate report for the whole store.
func (h *Handler) Stats(c *gin.Context) {
	rep, err := h.src.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if rep.Files == nil {
		rep.Files = []stats.FileStats{}
	}
	c.JSON(http.StatusOK, rep)
}

func (h *Handler) date(c *gin.Context) string {
	if date := strings.TrimSpace(c.Query(api.ParamDate)); date != "" {
		return date
	}
	return eventstore.FormatDate(eventstore.Today(h.now()))
}

func (h *Handler) parseQuery(c *gin.Context) (filter.Query, error) {
	query := filter.Query{
		Value: c.Query(api.ParamFilter),
		Where: strings.TrimSpace(c.Query(api.ParamWhere)),
	}
	if raw := strings.TrimSpace(c.Query(api.ParamLast)); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return filter.Query{}, errors.Wrapf(eventstore.ErrInvalidArgument, "last must be an integer, got %q", raw)
		}
		// Zero or negative keeps every record, as filter.Last does.
		query.Last = max(n, 0)
	}
	if query.Where != "" {
		if _, err := filter.Compile(query.Where); err != nil {
			return filter.Query{}, err
		}
	}
	return query, nil
}

func (h *Handler) fail(c *gin.Context, err error) {
	ctx := c.Request.Context()
	switch {
	case errors.Is(err, eventstore.ErrNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, eventstore.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	default:
		slog.ErrorContext(ctx, "request failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
	}
}
