package blogservice

import (
	"database/sql"
	"log/slog"
	"time"

	"postly/internal/common"
)

type Blog struct {
	ID        int     `json:"id"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Published bool    `json:"published"`
	Image     *string `json:"image"`
	UserID    int     `json:"user_id"`
	// Owner is only populated on the published projections and carries
	// nothing beyond the owner's email.
	Owner     *Owner    `json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Owner struct {
	Email string `json:"email"`
}

type Metadata struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

type BlogList struct {
	Blogs      []Blog   `json:"blogs"`
	Pagination Metadata `json:"pagination"`
}

type BlogModel struct {
	db *sql.DB
}

type BlogService struct {
	m         *BlogModel
	c         *common.Cache
	logger    *slog.Logger
	uploadDir string
}
