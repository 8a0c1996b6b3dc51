package locationapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/codalotl/locpick/internal/location"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, routes map[string]func(w http.ResponseWriter)) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		h, ok := routes[r.URL.EscapedPath()]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h(w)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func body(s string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(s))
	}
}

func status(code int) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.WriteHeader(code)
	}
}

func TestClientList(t *testing.T) {
	srv, _ := newTestServer(t, map[string]func(http.ResponseWriter){
		"/countries":                              body(`["India","USA"]`),
		"/country=India/states":                   body(`["Maharashtra","Goa"]`),
		"/country=India/state=Goa/cities":         body(`["Panaji"]`),
		"/country=United%20States/states":         body(`[]`),
		"/country=India/state=Maharashtra/cities": body(` [ "Mumbai" , "Pune" ] `),
	})
	c := NewClient(srv.URL + "/")
	ctx := context.Background()

	got, err := c.List(ctx, location.Country, location.Selection{})
	require.NoError(t, err)
	assert.Equal(t, []string{"India", "USA"}, got)

	got, err = c.List(ctx, location.State, location.Selection{"India"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Maharashtra", "Goa"}, got)

	got, err = c.List(ctx, location.City, location.Selection{"India", "Goa"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Panaji"}, got)

	got, err = c.List(ctx, location.City, location.Selection{"India", "Maharashtra"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Mumbai", "Pune"}, got)

	got, err = c.List(ctx, location.State, location.Selection{"United States"})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestClientListMissingParentMakesNoRequest(t *testing.T) {
	srv, hits := newTestServer(t, nil)
	c := NewClient(srv.URL)

	_, err := c.List(context.Background(), location.State, location.Selection{})
	require.ErrorIs(t, err, ErrMissingParent)

	_, err = c.List(context.Background(), location.City, location.Selection{"India"})
	require.ErrorIs(t, err, ErrMissingParent)

	assert.EqualValues(t, 0, hits.Load())
}

func TestClientListStatusError(t *testing.T) {
	srv, _ := newTestServer(t, map[string]func(http.ResponseWriter){
		"/countries": status(http.StatusInternalServerError),
	})
	c := NewClient(srv.URL)

	_, err := c.List(context.Background(), location.Country, location.Selection{})
	require.Error(t, err)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusInternalServerError, fe.StatusCode)
	assert.Equal(t, "/countries", fe.Path)
	assert.Contains(t, err.Error(), "500")
	assert.Equal(t, "GET /countries: unexpected status 500 Internal Server Error", err.Error())
}

func TestClientListNotFound(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	c := NewClient(srv.URL)

	_, err := c.List(context.Background(), location.State, location.Selection{"Atlantis"})
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusNotFound, fe.StatusCode)
	assert.Equal(t, "/country=Atlantis/states", fe.Path)
}

func TestClientListBadBody(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{name: "not json", payload: `<html>`, want: "invalid JSON"},
		{name: "object", payload: `{"countries":["India"]}`, want: "expected a JSON array, got object"},
		{name: "number element", payload: `["India",3]`, want: "element 1 is number, want string"},
		{name: "null element", payload: `[null]`, want: "element 0 is null, want string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, map[string]func(http.ResponseWriter){
				"/countries": body(tt.payload),
			})
			_, err := NewClient(srv.URL).List(context.Background(), location.Country, location.Selection{})
			var fe *FetchError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, http.StatusOK, fe.StatusCode)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestClientListTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).List(context.Background(), location.Country, location.Selection{})
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 0, fe.StatusCode)
	assert.NotNil(t, fe.Unwrap())
}

func TestClientListTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	c := NewClient(srv.URL, WithTimeout(50*time.Millisecond))
	_, err := c.List(context.Background(), location.Country, location.Selection{})
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 0, fe.StatusCode)
}

func TestNewClientDefaults(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, NewClient("").BaseURL())
	assert.Equal(t, "http://x", NewClient("http://x///").BaseURL())
}
