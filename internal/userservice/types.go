package userservice

import (
	"database/sql"
	"time"

	"postly/internal/common"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

var (
	AnonymousUser = User{}
)

type UserService struct {
	m  *DBModel
	mb common.MessageProducer
}

type DBModel struct {
	db *sql.DB
}

type User struct {
	ID int `json:"id"`
	// ExternalID is the identity provider's subject id. It is unique and
	// never changes for the lifetime of the user.
	ExternalID string    `json:"external_id"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
