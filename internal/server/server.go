// Package server exposes an event store over a read-only HTTP API.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/statewalk/evlog/internal/source"
)

// Config controls how the HTTP server is bound.
type Config struct {
	Bind string
	// Now supplies the date used when a request omits ?date=. Defaults to time.Now.
	Now func() time.Time
}

// NewRouter builds the gin engine serving src.
func NewRouter(src source.Source, now func() time.Time) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())
	SetupRoutes(router, NewHandler(src, now))
	return router
}

// SetupRoutes registers every endpoint on router.
func SetupRoutes(router *gin.Engine, h *Handler) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.GET("/files", h.Files)
		api.GET("/events", h.Events)
		api.GET("/summary", h.Summary)
		api.GET("/stats", h.Stats)
	}
}

// Run serves src on cfg.Bind until ctx is cancelled.
func Run(ctx context.Context, src source.Source, cfg Config) error {
	server := &http.Server{
		Addr:              cfg.Bind,
		Handler:           NewRouter(src, cfg.Now),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "http server starting", "bind", cfg.Bind)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.InfoContext(ctx, "shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.InfoContext(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
