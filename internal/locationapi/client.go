package locationapi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/codalotl/locpick/internal/location"
	"github.com/tidwall/gjson"
)

// DefaultBaseURL is the hosted location-data service.
const DefaultBaseURL = "https://crio-location-selector.onrender.com"

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// Client fetches option lists from the location-data service. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds each request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient returns a client for the service at baseURL (scheme required; trailing slash optional). An empty baseURL means DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// List fetches the options for level under sel, in the order the service returns them. The result may be empty.
//
// If sel lacks the required parent value, List returns ErrMissingParent without making a request. Other failures are *FetchError.
func (c *Client) List(ctx context.Context, level location.Level, sel location.Selection) ([]string, error) {
	path, ok := Path(level, sel)
	if !ok {
		return nil, ErrMissingParent
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, &FetchError{Method: http.MethodGet, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("fetching options", "level", level.String(), "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Method: http.MethodGet, Path: path, Err: err}
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Method: http.MethodGet, Path: path, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &FetchError{Method: http.MethodGet, Path: path, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	values, err := decodeStrings(body)
	if err != nil {
		return nil, &FetchError{Method: http.MethodGet, Path: path, StatusCode: resp.StatusCode, Err: err}
	}
	return values, nil
}

// decodeStrings parses body as a JSON array of strings.
func decodeStrings(body []byte) ([]string, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("decode body: invalid JSON")
	}
	res := gjson.ParseBytes(body)
	if !res.IsArray() {
		return nil, fmt.Errorf("decode body: expected a JSON array, got %s", describe(res))
	}

	elems := res.Array()
	out := make([]string, 0, len(elems))
	for i, el := range elems {
		if el.Type != gjson.String {
			return nil, fmt.Errorf("decode body: element %d is %s, want string", i, describe(el))
		}
		out = append(out, el.Str)
	}
	return out, nil
}

func describe(r gjson.Result) string {
	switch {
	case r.IsArray():
		return "array"
	case r.IsObject():
		return "object"
	}
	switch r.Type {
	case gjson.Null:
		return "null"
	case gjson.False, gjson.True:
		return "bool"
	case gjson.Number:
		return "number"
	case gjson.String:
		return "string"
	}
	return "unknown"
}
