package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const DefaultBaseURL = "https://identitytoolkit.googleapis.com/v1"

// NewClient creates a REST client for the identity provider. baseURL may be
// empty to use the hosted endpoint; tests point it at a local server.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// apiError is the provider's error envelope, e.g.
// {"error": {"code": 400, "message": "EMAIL_EXISTS"}}.
type apiError struct {
	Err struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// post sends a single request to the named provider action. A transport
// failure wraps ErrProviderUnavailable; a provider rejection is returned as
// an *apiError for the caller to map.
func (c *Client) post(ctx context.Context, action string, body, dst any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/accounts:%s?key=%s", c.baseURL, action, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 500 {
		return fmt.Errorf("%w: status %d", ErrProviderUnavailable, res.StatusCode)
	}

	if res.StatusCode != http.StatusOK {
		var apiErr apiError
		if err := json.NewDecoder(res.Body).Decode(&apiErr); err != nil {
			return fmt.Errorf("provider returned status %d", res.StatusCode)
		}
		return &providerError{message: apiErr.Err.Message}
	}

	return json.NewDecoder(res.Body).Decode(dst)
}

type providerError struct {
	message string
}

func (e *providerError) Error() string {
	return fmt.Sprintf("provider rejected request: %s", e.message)
}

func (e *providerError) is(reason string) bool {
	return strings.Contains(e.message, reason)
}

// CreateAccount registers a new account with the provider and returns its
// subject id.
func (c *Client) CreateAccount(ctx context.Context, email, password string) (*Account, error) {
	body := map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}

	var res struct {
		LocalID string `json:"localId"`
		Email   string `json:"email"`
	}

	err := c.post(ctx, "signUp", body, &res)
	if err != nil {
		var pErr *providerError
		if errors.As(err, &pErr) {
			if pErr.is("EMAIL_EXISTS") {
				return nil, ErrEmailTaken
			}
			return nil, pErr
		}
		return nil, err
	}

	return &Account{ExternalID: res.LocalID, Email: res.Email}, nil
}

// VerifyPassword exchanges credentials for provider tokens via the sign-in
// endpoint.
func (c *Client) VerifyPassword(ctx context.Context, email, password string) (*Token, error) {
	body := map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}

	var res struct {
		IDToken      string `json:"idToken"`
		RefreshToken string `json:"refreshToken"`
		ExpiresIn    string `json:"expiresIn"`
	}

	err := c.post(ctx, "signInWithPassword", body, &res)
	if err != nil {
		var pErr *providerError
		if errors.As(err, &pErr) {
			switch {
			case pErr.is("EMAIL_NOT_FOUND"):
				return nil, ErrUserNotFound
			case pErr.is("INVALID_PASSWORD"), pErr.is("INVALID_LOGIN_CREDENTIALS"):
				return nil, ErrInvalidPassword
			default:
				return nil, ErrInvalidCredentials
			}
		}
		return nil, err
	}

	// The provider reports the token lifetime as a string of seconds. A
	// value that does not parse would silently produce a session cookie at
	// login, so treat it as a malformed response.
	expiresIn, err := strconv.Atoi(res.ExpiresIn)
	if err != nil {
		return nil, fmt.Errorf("unexpected expiresIn value %q: %w", res.ExpiresIn, err)
	}

	return &Token{
		IDToken:      res.IDToken,
		RefreshToken: res.RefreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}

// VerifyToken resolves a bearer token back to the provider subject that it
// was minted for.
func (c *Client) VerifyToken(ctx context.Context, token string) (*Identity, error) {
	body := map[string]any{"idToken": token}

	var res struct {
		Users []struct {
			LocalID          string `json:"localId"`
			Email            string `json:"email"`
			EmailVerified    bool   `json:"emailVerified"`
			CustomAttributes string `json:"customAttributes"`
		} `json:"users"`
	}

	err := c.post(ctx, "lookup", body, &res)
	if err != nil {
		var pErr *providerError
		if errors.As(err, &pErr) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if len(res.Users) == 0 {
		return nil, ErrInvalidToken
	}

	u := res.Users[0]

	claims := map[string]any{"email_verified": u.EmailVerified}
	if u.CustomAttributes != "" {
		var custom map[string]any
		if err := json.Unmarshal([]byte(u.CustomAttributes), &custom); err == nil {
			for k, v := range custom {
				claims[k] = v
			}
		}
	}

	return &Identity{ExternalID: u.LocalID, Email: u.Email, Claims: claims}, nil
}

