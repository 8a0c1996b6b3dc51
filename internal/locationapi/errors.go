package locationapi

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingParent is returned by List when the selection lacks the parent value needed to build the endpoint. No request is made.
var ErrMissingParent = errors.New("locationapi: missing parent selection")

// FetchError describes a failed request: a transport error, a non-2xx status, or an unusable body.
type FetchError struct {
	Method string
	Path   string

	// StatusCode is the HTTP status, or 0 if no response was received.
	StatusCode int
	Status     string

	// Err is the underlying transport or decode error, if any.
	Err error
}

func (e *FetchError) Error() string {
	var b strings.Builder
	b.WriteString(e.Method)
	b.WriteString(" ")
	b.WriteString(e.Path)
	b.WriteString(": ")
	switch {
	case e.StatusCode != 0 && e.Err == nil:
		status := e.Status
		if status == "" {
			status = fmt.Sprint(e.StatusCode)
		}
		b.WriteString("unexpected status ")
		b.WriteString(status)
	case e.StatusCode != 0:
		fmt.Fprintf(&b, "status %d: %v", e.StatusCode, e.Err)
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		b.WriteString("request failed")
	}
	return b.String()
}

func (e *FetchError) Unwrap() error { return e.Err }
