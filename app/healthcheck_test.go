package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthcheckHandler(t *testing.T) {
	app := &application{
		config: &Config{Environment: "testing", Version: "1.0.0"},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	req := httptest.NewRequest(http.MethodGet, "/api/healthcheck", nil)
	res := httptest.NewRecorder()

	app.healthcheckHandler(res, req)

	statusCode, _, body := readResponse(t, res.Result())

	assert.Equal(t, http.StatusOK, statusCode)
	assert.True(t, body.Success)

	data := body.Data.(map[string]any)
	assert.Equal(t, "available", data["status"])
	assert.Equal(t, "testing", data["environment"])
	assert.Equal(t, "1.0.0", data["version"])
}
