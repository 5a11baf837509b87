package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// ServeDir serves dir over HTTP for the lifetime of the test.
func ServeDir(t *testing.T, dir string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.FileServer(http.Dir(dir)))
	t.Cleanup(server.Close)
	return server
}

// ServeFile serves a single file at every path for the lifetime of the test.
func ServeFile(t *testing.T, path string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, path)
	}))
	t.Cleanup(server.Close)
	return server
}
