package locationapi

import (
	"net/url"

	"github.com/codalotl/locpick/internal/location"
)

// Path returns the endpoint path listing the options for level under sel. ok is false when sel lacks the parent value the endpoint needs (a country
// for states, a state for cities); callers treat that as "nothing to fetch", not as an error.
func Path(level location.Level, sel location.Selection) (path string, ok bool) {
	if !sel.CanLoad(level) {
		return "", false
	}
	switch level {
	case location.Country:
		return "/countries", true
	case location.State:
		return "/country=" + url.PathEscape(sel.Get(location.Country)) + "/states", true
	case location.City:
		return "/country=" + url.PathEscape(sel.Get(location.Country)) +
			"/state=" + url.PathEscape(sel.Get(location.State)) + "/cities", true
	}
	return "", false
}
