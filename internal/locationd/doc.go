// Package locationd serves the location-data API from a static dataset.
//
// It implements the same contract the selector consumes (GET /countries, GET /country={country}/states, GET /country={country}/state={state}/cities)
// so the selector can run and be tested without the hosted service. Unknown countries or states produce 404 with a JSON error object.
package locationd
