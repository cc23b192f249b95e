package userservice

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"

	"postly/internal/common"
)

type mockProducer struct {
	published [][]byte
}

func (p *mockProducer) Publish(ctx context.Context, msg []byte, key common.BindingKey, exchange common.Exchange) error {
	p.published = append(p.published, msg)
	return nil
}

func setupTestEnvironment(t *testing.T) (*UserService, *sql.DB, *mockProducer) {
	db := common.TestDB("file://../../migrations", t)
	mb := &mockProducer{}

	return NewUserService(db, mb), db, mb
}

func TestCreateUser(t *testing.T) {
	s, _, mb := setupTestEnvironment(t)

	testCases := []struct {
		name        string
		externalID  string
		email       string
		expectedErr error
	}{
		{
			name:        "valid user",
			externalID:  "uid-123",
			email:       "testuser@example.com",
			expectedErr: nil,
		},
		{
			name:        "duplicate external id",
			externalID:  "uid-123",
			email:       "other@example.com",
			expectedErr: ErrDuplicateExternalID,
		},
		{
			name:        "empty external id",
			externalID:  "",
			email:       "testuser@example.com",
			expectedErr: common.ValidationError{Errors: map[string]string{"external_id": "must be provided"}},
		},
		{
			name:        "malformed email",
			externalID:  "uid-456",
			email:       "not-an-email",
			expectedErr: common.ValidationError{Errors: map[string]string{"email": "must be a valid email address"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			user, err := s.CreateUser(context.Background(), tc.externalID, tc.email)
			if tc.expectedErr != nil {
				assert.Equal(t, tc.expectedErr, err)
				return
			}

			assert.NoError(t, err)
			assert.NotZero(t, user.ID)
			assert.Equal(t, tc.externalID, user.ExternalID)
			assert.Equal(t, tc.email, user.Email)
			assert.Equal(t, RoleUser, user.Role)
		})
	}

	// one publish per successfully created user
	assert.Len(t, mb.published, 1)
}

func TestFindByExternalID(t *testing.T) {
	s, db, _ := setupTestEnvironment(t)

	created, err := s.CreateUser(context.Background(), "uid-123", "testuser@example.com")
	assert.NoError(t, err)

	found, err := s.FindByExternalID(context.Background(), "uid-123")
	assert.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, created.Email, found.Email)

	// uniqueness invariant: exactly one row per external id
	var count int
	err = db.QueryRow("SELECT count(*) FROM users WHERE external_id = $1", "uid-123").Scan(&count)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = s.FindByExternalID(context.Background(), "uid-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindByID(t *testing.T) {
	s, _, _ := setupTestEnvironment(t)

	created, err := s.CreateUser(context.Background(), "uid-123", "testuser@example.com")
	assert.NoError(t, err)

	found, err := s.FindByID(context.Background(), created.ID)
	assert.NoError(t, err)
	assert.Equal(t, created.ExternalID, found.ExternalID)

	profile, err := s.Profile(context.Background(), created.ID)
	assert.NoError(t, err)
	assert.Equal(t, found, profile)

	_, err = s.FindByID(context.Background(), created.ID+1000)
	assert.ErrorIs(t, err, ErrNotFound)
}
