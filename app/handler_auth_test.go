package main

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterUserHandler(t *testing.T) {
	app, db, provider := newTestApplication(t)

	ts := newTestServer(t, app.routes())

	tests := []struct {
		name       string
		payload    map[string]any
		setup      func()
		wantStatus int
	}{
		{
			name:       "valid registration",
			payload:    map[string]any{"email": "newuser@example.com", "password": "Test_1234!"},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "duplicate email",
			payload:    map[string]any{"email": "newuser@example.com", "password": "Test_1234!"},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "invalid email",
			payload:    map[string]any{"email": "not-an-email", "password": "Test_1234!"},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "short password",
			payload:    map[string]any{"email": "short@example.com", "password": "abc"},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "missing body fields",
			payload:    map[string]any{},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:    "provider unavailable",
			payload: map[string]any{"email": "other@example.com", "password": "Test_1234!"},
			setup: func() {
				provider.Unavailable = true
			},
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
			}

			statusCode, _, body := ts.post(t, "/api/auth/register", tt.payload, nil)

			assert.Equal(t, tt.wantStatus, statusCode)

			if tt.wantStatus == http.StatusCreated {
				assert.True(t, body.Success)
				assert.Equal(t, "User registered successfully", body.Message)

				data := body.Data.(map[string]any)
				assert.Equal(t, "newuser@example.com", data["email"])
				assert.Equal(t, "user", data["role"])
				assert.NotEmpty(t, data["external_id"])

				var count int
				err := db.QueryRow("SELECT count(*) FROM users WHERE email = $1", "newuser@example.com").Scan(&count)
				assert.NoError(t, err)
				assert.Equal(t, 1, count)
			} else {
				assert.False(t, body.Success)
			}
		})
	}
}

func TestLoginUserHandler(t *testing.T) {
	app, _, provider := newTestApplication(t)

	registerTestUser(t, app, provider, "login@example.com")

	ts := newTestServer(t, app.routes())

	tests := []struct {
		name       string
		payload    map[string]any
		wantStatus int
		wantError  string
	}{
		{
			name:       "valid credentials",
			payload:    map[string]any{"email": "login@example.com", "password": "Test_1234!"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown user",
			payload:    map[string]any{"email": "nobody@example.com", "password": "Test_1234!"},
			wantStatus: http.StatusUnauthorized,
			wantError:  "user not found",
		},
		{
			name:       "wrong password",
			payload:    map[string]any{"email": "login@example.com", "password": "Wrong_1234!"},
			wantStatus: http.StatusUnauthorized,
			wantError:  "invalid password",
		},
		{
			name:       "missing password",
			payload:    map[string]any{"email": "login@example.com"},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statusCode, _, body := ts.post(t, "/api/auth/login", tt.payload, nil)

			assert.Equal(t, tt.wantStatus, statusCode)

			if tt.wantStatus == http.StatusOK {
				assert.True(t, body.Success)

				data := body.Data.(map[string]any)
				assert.NotEmpty(t, data["id_token"])
				assert.NotEmpty(t, data["refresh_token"])
				assert.Equal(t, float64(3600), data["expires_in"])
			} else {
				assert.False(t, body.Success)
				if tt.wantError != "" {
					assert.Equal(t, tt.wantError, body.Error)
				}
			}
		})
	}
}

func TestLoginSetsCookie(t *testing.T) {
	app, _, provider := newTestApplication(t)

	registerTestUser(t, app, provider, "cookie@example.com")

	ts := newTestServer(t, app.routes())

	statusCode, headers, _ := ts.post(t, "/api/auth/login", map[string]any{"email": "cookie@example.com", "password": "Test_1234!"}, nil)
	assert.Equal(t, http.StatusOK, statusCode)

	res := http.Response{Header: headers}
	cookies := res.Cookies()

	var authCookie *http.Cookie
	for _, c := range cookies {
		if c.Name == authCookieName {
			authCookie = c
		}
	}

	assert.NotNil(t, authCookie)
	assert.NotEmpty(t, authCookie.Value)
	assert.True(t, authCookie.HttpOnly)
	assert.False(t, authCookie.Secure)
	assert.Equal(t, 3600, authCookie.MaxAge)
}

func TestLogoutClearsCookie(t *testing.T) {
	app, _, _ := newTestApplication(t)

	ts := newTestServer(t, app.routes())

	statusCode, headers, body := ts.post(t, "/api/auth/logout", nil, nil)
	assert.Equal(t, http.StatusOK, statusCode)
	assert.True(t, body.Success)
	assert.Equal(t, "User logged out successfully", body.Message)

	res := http.Response{Header: headers}
	cookies := res.Cookies()

	var authCookie *http.Cookie
	for _, c := range cookies {
		if c.Name == authCookieName {
			authCookie = c
		}
	}

	assert.NotNil(t, authCookie)
	assert.Empty(t, authCookie.Value)
	assert.Equal(t, -1, authCookie.MaxAge)
}
