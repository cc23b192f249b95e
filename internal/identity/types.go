package identity

import (
	"context"
	"errors"
	"net/http"
)

var (
	ErrEmailTaken          = errors.New("email already registered")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidPassword     = errors.New("invalid password")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrProviderUnavailable = errors.New("identity provider unavailable")
)

// Provider is the capability surface of the external identity service. All
// credential and token state lives with the provider; nothing is stored
// locally.
type Provider interface {
	CreateAccount(ctx context.Context, email, password string) (*Account, error)
	VerifyPassword(ctx context.Context, email, password string) (*Token, error)
	VerifyToken(ctx context.Context, token string) (*Identity, error)
}

type Account struct {
	ExternalID string `json:"external_id"`
	Email      string `json:"email"`
}

type Token struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type Identity struct {
	ExternalID string         `json:"external_id"`
	Email      string         `json:"email"`
	Claims     map[string]any `json:"claims"`
}

type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}
