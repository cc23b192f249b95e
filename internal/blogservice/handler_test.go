package blogservice

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"postly/internal/common"
)

// setupTestUser creates a local user row the way the auth flow would after a
// successful provider registration.
func setupTestUser(db *sql.DB, externalID, email string) (int, error) {
	query := `
		INSERT INTO users (external_id, email)
		VALUES ($1, $2)
		RETURNING id`

	var id int
	err := db.QueryRow(query, externalID, email).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

func setupTestEnvironment(t *testing.T) (*BlogService, *sql.DB, int, string) {
	db := common.TestDB("file://../../migrations", t)
	cache := common.NewCache(5*time.Minute, 10*time.Minute)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	uploadDir := t.TempDir()

	userID, err := setupTestUser(db, "uid-owner", "owner@example.com")
	assert.NoError(t, err)

	return NewBlogService(db, cache, logger, uploadDir), db, userID, uploadDir
}

func TestCreateBlog(t *testing.T) {
	s, _, userID, _ := setupTestEnvironment(t)

	testCases := []struct {
		name        string
		req         *CreateBlogRequest
		expectedErr error
	}{
		{
			name: "valid blog",
			req: &CreateBlogRequest{
				Title:   "Test Blog",
				Content: "This is a test blog.",
				UserID:  userID,
			},
			expectedErr: nil,
		},
		{
			name: "empty title",
			req: &CreateBlogRequest{
				Title:   "",
				Content: "This is a test blog.",
				UserID:  userID,
			},
			expectedErr: common.ValidationError{Errors: map[string]string{"title": "must be provided"}},
		},
		{
			name: "unknown owner",
			req: &CreateBlogRequest{
				Title:   "Test Blog",
				Content: "This is a test blog.",
				UserID:  userID + 1000,
			},
			expectedErr: ErrUserForeignKey,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			blog, err := s.Create(context.Background(), tc.req)
			if tc.expectedErr != nil {
				assert.Equal(t, tc.expectedErr, err)
				return
			}

			assert.NoError(t, err)
			assert.NotZero(t, blog.ID)
			assert.False(t, blog.Published)
			assert.Nil(t, blog.Image)
		})
	}
}

func TestCreateGetRoundTrip(t *testing.T) {
	s, _, userID, _ := setupTestEnvironment(t)

	created, err := s.Create(context.Background(), &CreateBlogRequest{
		Title:   "T",
		Content: "C",
		UserID:  userID,
	})
	assert.NoError(t, err)

	blog, err := s.Get(context.Background(), created.ID, userID)
	assert.NoError(t, err)
	assert.Equal(t, "T", blog.Title)
	assert.Equal(t, "C", blog.Content)
	assert.False(t, blog.Published)
	assert.Nil(t, blog.Image)
}

func TestOwnershipCollapse(t *testing.T) {
	s, db, userID, _ := setupTestEnvironment(t)

	otherID, err := setupTestUser(db, "uid-other", "other@example.com")
	assert.NoError(t, err)

	blog, err := s.Create(context.Background(), &CreateBlogRequest{
		Title:   "Owned Blog",
		Content: "Content",
		UserID:  userID,
	})
	assert.NoError(t, err)

	// a non-owner gets the same error as a non-existent id
	_, missingErr := s.Get(context.Background(), blog.ID+1000, userID)
	assert.ErrorIs(t, missingErr, ErrRecordNotFound)

	_, err = s.Get(context.Background(), blog.ID, otherID)
	assert.Equal(t, missingErr, err)

	_, err = s.Update(context.Background(), blog.ID, otherID, &UpdateBlogRequest{})
	assert.ErrorIs(t, err, ErrRecordNotFound)

	err = s.Remove(context.Background(), blog.ID, otherID)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	// the owner still sees the row
	_, err = s.Get(context.Background(), blog.ID, userID)
	assert.NoError(t, err)
}

func insertBlogAt(db *sql.DB, userID int, title string, published bool, at time.Time) error {
	query := `
		INSERT INTO blogs (title, content, published, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)`

	_, err := db.Exec(query, title, "content", published, userID, at)
	return err
}

func TestListPagination(t *testing.T) {
	s, db, userID, _ := setupTestEnvironment(t)

	base := time.Now().Add(-time.Hour)
	for i := 1; i <= 25; i++ {
		err := insertBlogAt(db, userID, fmt.Sprintf("Blog %d", i), false, base.Add(time.Duration(i)*time.Minute))
		assert.NoError(t, err)
	}

	list, err := s.List(context.Background(), userID, 2, 10)
	assert.NoError(t, err)

	assert.Len(t, list.Blogs, 10)
	assert.Equal(t, 2, list.Pagination.Page)
	assert.Equal(t, 10, list.Pagination.Limit)
	assert.Equal(t, 25, list.Pagination.Total)

	// newest first: page 2 covers items 11-20, i.e. blogs 15 down to 6
	assert.Equal(t, "Blog 15", list.Blogs[0].Title)
	assert.Equal(t, "Blog 6", list.Blogs[9].Title)

	for i := 1; i < len(list.Blogs); i++ {
		assert.False(t, list.Blogs[i].UpdatedAt.After(list.Blogs[i-1].UpdatedAt))
	}
}

func TestListPaginationDefaults(t *testing.T) {
	s, db, userID, _ := setupTestEnvironment(t)

	base := time.Now().Add(-time.Hour)
	for i := 1; i <= 15; i++ {
		err := insertBlogAt(db, userID, fmt.Sprintf("Blog %d", i), false, base.Add(time.Duration(i)*time.Minute))
		assert.NoError(t, err)
	}

	list, err := s.List(context.Background(), userID, 0, 0)
	assert.NoError(t, err)

	assert.Len(t, list.Blogs, 10)
	assert.Equal(t, 1, list.Pagination.Page)
	assert.Equal(t, 10, list.Pagination.Limit)
	assert.Equal(t, 15, list.Pagination.Total)
}

func TestUpdateBlogPartialMerge(t *testing.T) {
	s, _, userID, _ := setupTestEnvironment(t)

	created, err := s.Create(context.Background(), &CreateBlogRequest{
		Title:   "Original Title",
		Content: "Original content",
		UserID:  userID,
	})
	assert.NoError(t, err)

	newContent := "Updated content"
	updated, err := s.Update(context.Background(), created.ID, userID, &UpdateBlogRequest{Content: &newContent})
	assert.NoError(t, err)

	assert.Equal(t, "Original Title", updated.Title)
	assert.Equal(t, "Updated content", updated.Content)
	assert.False(t, updated.Published)

	empty := ""
	_, err = s.Update(context.Background(), created.ID, userID, &UpdateBlogRequest{Title: &empty})
	assert.Equal(t, common.ValidationError{Errors: map[string]string{"title": "must be provided"}}, err)
}

func TestPublishedVisibility(t *testing.T) {
	s, _, userID, _ := setupTestEnvironment(t)

	created, err := s.Create(context.Background(), &CreateBlogRequest{
		Title:   "Draft Blog",
		Content: "Content",
		UserID:  userID,
	})
	assert.NoError(t, err)

	// unpublished: absent from the public listing, present for the owner
	publicList, err := s.ListPublished(context.Background(), 1, 10)
	assert.NoError(t, err)
	assert.Empty(t, publicList.Blogs)
	assert.Equal(t, 0, publicList.Pagination.Total)

	_, err = s.GetPublished(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	ownerList, err := s.List(context.Background(), userID, 1, 10)
	assert.NoError(t, err)
	assert.Len(t, ownerList.Blogs, 1)

	// flipping the flag makes it visible on the next call
	published := true
	_, err = s.Update(context.Background(), created.ID, userID, &UpdateBlogRequest{Published: &published})
	assert.NoError(t, err)

	publicList, err = s.ListPublished(context.Background(), 1, 10)
	assert.NoError(t, err)
	assert.Len(t, publicList.Blogs, 1)
	assert.Equal(t, 1, publicList.Pagination.Total)

	// published projections only carry the owner's email
	assert.NotNil(t, publicList.Blogs[0].Owner)
	assert.Equal(t, "owner@example.com", publicList.Blogs[0].Owner.Email)

	blog, err := s.GetPublished(context.Background(), created.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Draft Blog", blog.Title)

	byOwner, err := s.ListPublishedByOwner(context.Background(), userID, 1, 10)
	assert.NoError(t, err)
	assert.Len(t, byOwner.Blogs, 1)
}

func TestAttachDetachImage(t *testing.T) {
	s, _, userID, uploadDir := setupTestEnvironment(t)

	created, err := s.Create(context.Background(), &CreateBlogRequest{
		Title:   "Blog With Image",
		Content: "Content",
		UserID:  userID,
	})
	assert.NoError(t, err)

	filename := "image-123.png"
	err = os.WriteFile(filepath.Join(uploadDir, filename), []byte("fake image"), 0o644)
	assert.NoError(t, err)

	blog, err := s.AttachImage(context.Background(), created.ID, userID, ImagePath(filename))
	assert.NoError(t, err)
	assert.NotNil(t, blog.Image)
	assert.Equal(t, "/uploads/"+filename, *blog.Image)

	blog, err = s.DetachImage(context.Background(), created.ID, userID)
	assert.NoError(t, err)
	assert.Nil(t, blog.Image)

	_, err = os.Stat(filepath.Join(uploadDir, filename))
	assert.True(t, os.IsNotExist(err))

	// idempotent: a second detach with no file left does not error
	blog, err = s.DetachImage(context.Background(), created.ID, userID)
	assert.NoError(t, err)
	assert.Nil(t, blog.Image)
}

func TestRemoveDeletesImageFile(t *testing.T) {
	s, _, userID, uploadDir := setupTestEnvironment(t)

	created, err := s.Create(context.Background(), &CreateBlogRequest{
		Title:   "Blog With Image",
		Content: "Content",
		UserID:  userID,
	})
	assert.NoError(t, err)

	filename := "image-456.jpg"
	err = os.WriteFile(filepath.Join(uploadDir, filename), []byte("fake image"), 0o644)
	assert.NoError(t, err)

	_, err = s.AttachImage(context.Background(), created.ID, userID, ImagePath(filename))
	assert.NoError(t, err)

	err = s.Remove(context.Background(), created.ID, userID)
	assert.NoError(t, err)

	_, err = s.Get(context.Background(), created.ID, userID)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	_, err = os.Stat(filepath.Join(uploadDir, filename))
	assert.True(t, os.IsNotExist(err))
}
