package selector

import (
	"context"
	"errors"
	"log/slog"

	"github.com/codalotl/locpick/internal/location"
	"github.com/codalotl/locpick/internal/locationapi"
)

// Fetcher lists the options for a level. *locationapi.Client implements it.
type Fetcher interface {
	List(ctx context.Context, level location.Level, sel location.Selection) ([]string, error)
}

// Controller runs Requests against a Fetcher. It holds no selection state, so Fetch is safe to call from any goroutine.
type Controller struct {
	fetcher Fetcher
	logger  *slog.Logger
}

// NewController returns a Controller backed by fetcher. logger may be nil.
func NewController(fetcher Fetcher, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{fetcher: fetcher, logger: logger}
}

// Fetch performs req and returns its Result. It blocks until the fetcher returns.
func (c *Controller) Fetch(ctx context.Context, req Request) Result {
	c.logger.Debug("fetch dispatched", "level", req.Level.String(), "gen", req.Gen)

	opts, err := c.fetcher.List(ctx, req.Level, req.Selection)
	if err != nil {
		if errors.Is(err, locationapi.ErrMissingParent) {
			c.logger.Debug("fetch skipped: missing parent", "level", req.Level.String())
			return Result{Request: req, Skipped: true}
		}
		return Result{Request: req, Err: err}
	}
	if opts == nil {
		opts = []string{}
	}
	return Result{Request: req, Options: opts}
}
