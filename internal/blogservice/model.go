package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrUserForeignKey = errors.New("user_id does not exist")
)

func newBlogModel(db *sql.DB) *BlogModel {
	return &BlogModel{db: db}
}

// ForeignKeyError is a helper to check if the error is a foreign key
// constraint violation on the named constraint.
func ForeignKeyError(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23503" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (m *BlogModel) insert(ctx context.Context, blog *Blog) error {
	query := `
		INSERT INTO blogs (title, content, published, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := m.db.QueryRowContext(ctx, query, blog.Title, nullString(blog.Content), blog.Published, blog.UserID).Scan(&blog.ID, &blog.CreatedAt, &blog.UpdatedAt)
	if err != nil {
		switch {
		case ForeignKeyError(err, "blogs_user_id_fkey"):
			return ErrUserForeignKey
		default:
			return err
		}
	}

	return nil
}

// getByOwner looks a blog up with the owner folded into the predicate. A
// blog owned by someone else is indistinguishable from a missing one.
func (m *BlogModel) getByOwner(ctx context.Context, id, ownerID int) (*Blog, error) {
	query := `
		SELECT id, title, COALESCE(content, ''), published, image, user_id, created_at, updated_at
		FROM blogs
		WHERE id = $1 AND user_id = $2`

	row := m.db.QueryRowContext(ctx, query, id, ownerID)

	blog, err := scanBlog(row)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return blog, nil
}

func (m *BlogModel) listByOwner(ctx context.Context, ownerID, limit, offset int) ([]Blog, int, error) {
	query := `
		SELECT count(*) OVER(), id, title, COALESCE(content, ''), published, image, user_id, created_at, updated_at
		FROM blogs
		WHERE user_id = $1
		ORDER BY updated_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	rows, err := m.db.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var total int
	var blogs []Blog
	for rows.Next() {
		var blog Blog
		var image sql.NullString

		err := rows.Scan(&total, &blog.ID, &blog.Title, &blog.Content, &blog.Published, &image, &blog.UserID, &blog.CreatedAt, &blog.UpdatedAt)
		if err != nil {
			return nil, 0, err
		}
		if image.Valid {
			blog.Image = &image.String
		}
		blogs = append(blogs, blog)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return blogs, total, nil
}

func (m *BlogModel) update(ctx context.Context, blog *Blog) error {
	query := `
		UPDATE blogs
		SET title = $1, content = $2, published = $3
		WHERE id = $4 AND user_id = $5
		RETURNING updated_at`

	err := m.db.QueryRowContext(ctx, query, blog.Title, nullString(blog.Content), blog.Published, blog.ID, blog.UserID).Scan(&blog.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		default:
			return err
		}
	}

	return nil
}

func (m *BlogModel) delete(ctx context.Context, id, ownerID int) error {
	query := `
		DELETE FROM blogs
		WHERE id = $1 AND user_id = $2`

	res, err := m.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows != 1 {
		switch {
		case rows == 0:
			return ErrRecordNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return nil
}

func (m *BlogModel) setImage(ctx context.Context, id, ownerID int, image *string) (*Blog, error) {
	query := `
		UPDATE blogs
		SET image = $1
		WHERE id = $2 AND user_id = $3
		RETURNING id, title, COALESCE(content, ''), published, image, user_id, created_at, updated_at`

	var imageArg sql.NullString
	if image != nil {
		imageArg = sql.NullString{String: *image, Valid: true}
	}

	row := m.db.QueryRowContext(ctx, query, imageArg, id, ownerID)

	blog, err := scanBlog(row)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return blog, nil
}

// getPublishedByID joins the users table to project the owner's email
// alongside the blog. Only published blogs are visible here.
func (m *BlogModel) getPublishedByID(ctx context.Context, id int) (*Blog, error) {
	query := `
		SELECT b.id, b.title, COALESCE(b.content, ''), b.published, b.image, b.user_id, b.created_at, b.updated_at, u.email
		FROM blogs b
		JOIN users u ON b.user_id = u.id
		WHERE b.id = $1 AND b.published = true`

	row := m.db.QueryRowContext(ctx, query, id)

	var blog Blog
	var image sql.NullString
	var email string

	err := row.Scan(&blog.ID, &blog.Title, &blog.Content, &blog.Published, &image, &blog.UserID, &blog.CreatedAt, &blog.UpdatedAt, &email)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	if image.Valid {
		blog.Image = &image.String
	}
	blog.Owner = &Owner{Email: email}

	return &blog, nil
}

func (m *BlogModel) listPublished(ctx context.Context, limit, offset int) ([]Blog, int, error) {
	query := `
		SELECT count(*) OVER(), b.id, b.title, COALESCE(b.content, ''), b.published, b.image, b.user_id, b.created_at, b.updated_at, u.email
		FROM blogs b
		JOIN users u ON b.user_id = u.id
		WHERE b.published = true
		ORDER BY b.updated_at DESC, b.id DESC
		LIMIT $1 OFFSET $2`

	return m.queryPublished(ctx, query, limit, offset)
}

func (m *BlogModel) listPublishedByOwner(ctx context.Context, ownerID, limit, offset int) ([]Blog, int, error) {
	query := `
		SELECT count(*) OVER(), b.id, b.title, COALESCE(b.content, ''), b.published, b.image, b.user_id, b.created_at, b.updated_at, u.email
		FROM blogs b
		JOIN users u ON b.user_id = u.id
		WHERE b.published = true AND b.user_id = $3
		ORDER BY b.updated_at DESC, b.id DESC
		LIMIT $1 OFFSET $2`

	return m.queryPublished(ctx, query, limit, offset, ownerID)
}

func (m *BlogModel) queryPublished(ctx context.Context, query string, limit, offset int, args ...any) ([]Blog, int, error) {
	queryArgs := append([]any{limit, offset}, args...)

	rows, err := m.db.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var total int
	var blogs []Blog
	for rows.Next() {
		var blog Blog
		var image sql.NullString
		var email string

		err := rows.Scan(&total, &blog.ID, &blog.Title, &blog.Content, &blog.Published, &image, &blog.UserID, &blog.CreatedAt, &blog.UpdatedAt, &email)
		if err != nil {
			return nil, 0, err
		}
		if image.Valid {
			blog.Image = &image.String
		}
		blog.Owner = &Owner{Email: email}
		blogs = append(blogs, blog)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return blogs, total, nil
}

func scanBlog(row *sql.Row) (*Blog, error) {
	var blog Blog
	var image sql.NullString

	err := row.Scan(&blog.ID, &blog.Title, &blog.Content, &blog.Published, &image, &blog.UserID, &blog.CreatedAt, &blog.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if image.Valid {
		blog.Image = &image.String
	}

	return &blog, nil
}
