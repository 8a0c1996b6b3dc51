package selector

import (
	"log/slog"

	"github.com/codalotl/locpick/internal/location"
)

// ErrorPrefix starts every error message shown for a failed fetch.
const ErrorPrefix = "Error fetching data: "

// Model holds selection, option, and error state. The zero value is not usable; use New.
//
// Model is not safe for concurrent use: all calls must come from the goroutine that owns it.
type Model struct {
	sel     location.Selection
	opts    location.OptionSet
	errMsg  string
	gen     [location.NumLevels]uint64
	pending [location.NumLevels]int

	discardStale bool
	logger       *slog.Logger
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithDiscardStale drops Results whose Request was superseded by a newer Request for the same level.
func WithDiscardStale(discard bool) ModelOption {
	return func(m *Model) {
		m.discardStale = discard
	}
}

// WithModelLogger sets the logger for state transitions.
func WithModelLogger(logger *slog.Logger) ModelOption {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New returns a Model with no selections and empty option lists.
func New(opts ...ModelOption) *Model {
	m := &Model{logger: slog.New(slog.DiscardHandler)}
	for _, l := range location.Levels {
		m.opts.Reset(l)
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start returns the initial Request for the country list.
func (m *Model) Start() *Request {
	return m.request(location.Country)
}

// SelectAt chooses value at level (value "" clears the level). Every deeper selection and option list is cleared immediately. The returned Request
// fetches the next level's options; it is nil when level is the deepest level or the new selection cannot feed the next endpoint (ex: country
// cleared).
//
// Selecting the value that is already selected is not a no-op: the cascade and refetch happen again. A non-empty value at a level whose parents are not
// all chosen is ignored: nothing changes and nil is returned.
func (m *Model) SelectAt(level location.Level, value string) *Request {
	if !level.Valid() {
		return nil
	}
	if value != "" && !m.sel.CanLoad(level) {
		m.logger.Debug("ignored selection without parent", "level", level.String(), "value", value)
		return nil
	}
	m.sel = m.sel.With(level, value)
	m.opts.ResetDeeper(level)

	next, ok := level.Next()
	if !ok {
		return nil
	}
	return m.request(next)
}

// request returns a Request for level, or nil if the current selection cannot build its endpoint.
func (m *Model) request(level location.Level) *Request {
	if !m.sel.CanLoad(level) {
		return nil
	}
	m.gen[level]++
	m.pending[level]++
	return &Request{Level: level, Selection: m.sel, Gen: m.gen[level]}
}

// Apply reconciles res. On success the option list for res.Request.Level is replaced, the next level's list is emptied, and the error message is
// cleared. On failure the option lists are left untouched and the error message is replaced.
//
// Apply reports whether res was applied; it is false for skipped results and, when WithDiscardStale is set, for stale ones.
func (m *Model) Apply(res Result) bool {
	level := res.Request.Level
	if !level.Valid() {
		return false
	}
	if m.pending[level] > 0 {
		m.pending[level]--
	}

	if res.Skipped {
		return false
	}
	if m.discardStale && res.Request.Gen != m.gen[level] {
		m.logger.Debug("dropping stale result", "level", level.String(), "gen", res.Request.Gen, "latest", m.gen[level])
		return false
	}

	if res.Err != nil {
		m.errMsg = ErrorPrefix + res.Err.Error()
		m.logger.Warn("fetch failed", "level", level.String(), "error", res.Err)
		return true
	}

	m.opts.Set(level, res.Options)
	if next, ok := level.Next(); ok {
		m.opts.Reset(next)
	}
	m.errMsg = ""
	return true
}

// Selection returns the committed selection.
func (m *Model) Selection() location.Selection {
	return m.sel
}

// Options returns a copy of the option lists.
func (m *Model) Options() location.OptionSet {
	return m.opts.Clone()
}

// OptionsAt returns the options for level. The slice must not be modified.
func (m *Model) OptionsAt(level location.Level) []string {
	return m.opts.Get(level)
}

// Err returns the latest fetch error message, or "" if the latest fetch succeeded (or none has completed).
func (m *Model) Err() string {
	return m.errMsg
}

// Enabled reports whether level's selector accepts input: its option list is non-empty and its parent (if any) is selected.
func (m *Model) Enabled(level location.Level) bool {
	if len(m.opts.Get(level)) == 0 {
		return false
	}
	if parent, ok := level.Parent(); ok && !m.sel.IsSet(parent) {
		return false
	}
	return true
}

// Loading reports whether any Request for level has not yet been applied.
func (m *Model) Loading(level location.Level) bool {
	if !level.Valid() {
		return false
	}
	return m.pending[level] > 0
}

// Summary returns the "You selected ..." line once a city is chosen.
func (m *Model) Summary() (string, bool) {
	return m.sel.Summary()
}
