package userservice

import (
	"context"
	"database/sql"
	"encoding/json"

	"postly/internal/common"
)

func NewUserService(db *sql.DB, mb common.MessageProducer) *UserService {
	return &UserService{
		m:  newUserModel(db),
		mb: mb,
	}
}

// CreateUser records a local user row for an account that already exists at
// the identity provider and publishes a user.created event.
func (s *UserService) CreateUser(ctx context.Context, externalID, email string) (*User, error) {
	v := common.NewValidator()
	validateExternalID(v, externalID)
	validateEmail(v, email)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u := User{
		ExternalID: externalID,
		Email:      email,
		Role:       RoleUser,
	}

	err := s.m.insertUser(ctx, &u)
	if err != nil {
		return nil, err
	}

	data := struct {
		Email string
	}{
		Email: u.Email,
	}

	emailData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	// Publish the user created event for the welcome email consumer.
	err = s.mb.Publish(ctx, emailData, common.UserCreatedKey, common.UserExchange)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// FindByID returns the user with the given internal id.
func (s *UserService) FindByID(ctx context.Context, id int) (*User, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getByID(ctx, id)
}

// FindByExternalID returns the user owning the provider subject id. Exactly
// one row exists per external id.
func (s *UserService) FindByExternalID(ctx context.Context, externalID string) (*User, error) {
	v := common.NewValidator()
	validateExternalID(v, externalID)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getByExternalID(ctx, externalID)
}

// Profile is an alias of FindByID kept for the HTTP profile endpoint.
func (s *UserService) Profile(ctx context.Context, id int) (*User, error) {
	return s.FindByID(ctx, id)
}

func (u *User) IsAnonymous() bool {
	return u == &AnonymousUser
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
