// Package locationapi is a client for the location-data service that backs the selector.
//
// The service exposes three read-only list endpoints:
//
//	GET /countries
//	GET /country={country}/states
//	GET /country={country}/state={state}/cities
//
// Each returns a JSON array of strings. Path resolves the endpoint for a level from the current selection, and reports false when the parent value the
// endpoint needs is missing; List never issues a request in that case and returns ErrMissingParent. Any transport failure, non-2xx status, or body that
// is not an array of strings is reported as a *FetchError.
package locationapi
