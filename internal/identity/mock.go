package identity

import (
	"context"
	"fmt"
	"sync"
)

type mockAccount struct {
	externalID string
	password   string
}

// MockProvider is an in-memory stand-in for the external provider, used by
// tests so that nothing leaves the process.
type MockProvider struct {
	mu       sync.Mutex
	accounts map[string]mockAccount
	tokens   map[string]Identity
	seq      int

	// Unavailable makes every call fail with ErrProviderUnavailable.
	Unavailable bool
}

func NewMockProvider() *MockProvider {
	return &MockProvider{
		accounts: make(map[string]mockAccount),
		tokens:   make(map[string]Identity),
	}
}

func (p *MockProvider) CreateAccount(ctx context.Context, email, password string) (*Account, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Unavailable {
		return nil, ErrProviderUnavailable
	}

	if _, ok := p.accounts[email]; ok {
		return nil, ErrEmailTaken
	}

	p.seq++
	externalID := fmt.Sprintf("mock-uid-%d", p.seq)
	p.accounts[email] = mockAccount{externalID: externalID, password: password}

	return &Account{ExternalID: externalID, Email: email}, nil
}

func (p *MockProvider) VerifyPassword(ctx context.Context, email, password string) (*Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Unavailable {
		return nil, ErrProviderUnavailable
	}

	account, ok := p.accounts[email]
	if !ok {
		return nil, ErrUserNotFound
	}

	if account.password != password {
		return nil, ErrInvalidPassword
	}

	token := fmt.Sprintf("mock-token-%s", account.externalID)
	p.tokens[token] = Identity{
		ExternalID: account.externalID,
		Email:      email,
		Claims:     map[string]any{"email_verified": true},
	}

	return &Token{IDToken: token, RefreshToken: "mock-refresh-" + account.externalID, ExpiresIn: 3600}, nil
}

func (p *MockProvider) VerifyToken(ctx context.Context, token string) (*Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Unavailable {
		return nil, ErrProviderUnavailable
	}

	id, ok := p.tokens[token]
	if !ok {
		return nil, ErrInvalidToken
	}

	return &id, nil
}

// IssueToken registers a valid token for an already known identity, letting
// tests authenticate without going through VerifyPassword.
func (p *MockProvider) IssueToken(token, externalID, email string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.tokens[token] = Identity{
		ExternalID: externalID,
		Email:      email,
		Claims:     map[string]any{"email_verified": true},
	}
}
