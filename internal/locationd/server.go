package locationd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type server struct {
	ds     *Dataset
	logger *slog.Logger
}

// New returns an http.Handler serving ds. logger may be nil.
//
// Callers choose the gin mode (gin.SetMode) before calling New.
func New(ds *Dataset, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &server{ds: ds, logger: logger}

	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests)

	r.GET("/healthz", s.handleHealth)
	r.GET("/countries", s.handleCountries)
	// The service embeds parameters as "key=value" path segments, which gin can't express as a route pattern; the handlers strip the prefix.
	r.GET("/:country/states", s.handleStates)
	r.GET("/:country/:state/cities", s.handleCities)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	return r
}

func (s *server) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.logger.Info("request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"duration", time.Since(start),
	)
}

func (s *server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *server) handleCountries(c *gin.Context) {
	c.JSON(http.StatusOK, s.ds.CountryNames())
}

func (s *server) handleStates(c *gin.Context) {
	country, ok := segmentValue(c.Param("country"), "country")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	states, ok := s.ds.StateNames(country)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown country %q", country)})
		return
	}
	c.JSON(http.StatusOK, states)
}

func (s *server) handleCities(c *gin.Context) {
	country, ok1 := segmentValue(c.Param("country"), "country")
	state, ok2 := segmentValue(c.Param("state"), "state")
	if !ok1 || !ok2 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	cities, ok := s.ds.CityNames(country, state)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown state %q in country %q", state, country)})
		return
	}
	c.JSON(http.StatusOK, cities)
}

// segmentValue returns v from a "key=v" path segment. ok is false if the key doesn't match or v is empty.
func segmentValue(segment, key string) (string, bool) {
	v, ok := strings.CutPrefix(segment, key+"=")
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// ListenAndServe serves h on addr until ctx is canceled, then shuts down gracefully.
func ListenAndServe(ctx context.Context, addr string, h http.Handler, logger *slog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return Serve(ctx, ln, h, logger)
}

// Serve serves h on ln until ctx is canceled, then shuts down gracefully. It closes ln.
func Serve(ctx context.Context, ln net.Listener, h http.Handler, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("location server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("location server stopped")
	return nil
}
