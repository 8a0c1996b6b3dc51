package selector

import "github.com/codalotl/locpick/internal/location"

// Request asks for the options of Level given Selection, which is the selection as committed when the request was made.
type Request struct {
	Level     location.Level
	Selection location.Selection

	// Gen is the per-level generation assigned by Model. Higher is newer.
	Gen uint64
}

// Result is the outcome of a Request. Err != nil means the fetch failed; otherwise Options holds the fetched list.
type Result struct {
	Request Request
	Options []string
	Err     error

	// Skipped is set when no request was made because the selection lacked a parent value. Apply ignores skipped results.
	Skipped bool
}
