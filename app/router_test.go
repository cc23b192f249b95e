package main

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newBareApplication() *application {
	return &application{
		config: &Config{Environment: "testing", Version: "test"},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// The GET tree under /api/posts holds both the explorer subtree and id
// lookups, which is exactly the static-versus-wildcard mix httprouter
// rejects when registered as separate routes.
func TestRoutesRegister(t *testing.T) {
	app := newBareApplication()

	assert.NotPanics(t, func() {
		app.routes()
	})
}

func TestGetPostsDispatch(t *testing.T) {
	app := newBareApplication()

	ts := newTestServer(t, app.routes())

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{
			name:       "owner read without a token",
			path:       "/api/posts/1",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "explorer root alone",
			path:       "/api/posts/explorer",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "explorer with trailing garbage",
			path:       "/api/posts/explorer/all/extra",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "by-user without an id",
			path:       "/api/posts/explorer/by-user",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "bare trailing slash",
			path:       "/api/posts/",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "non-numeric published id",
			path:       "/api/posts/explorer/abc",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statusCode, _, body := ts.get(t, tt.path, nil)

			assert.Equal(t, tt.wantStatus, statusCode)
			assert.False(t, body.Success)
		})
	}
}
