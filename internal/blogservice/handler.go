package blogservice

import (
	"context"
	"database/sql"
	"log/slog"

	"postly/internal/common"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

func NewBlogService(db *sql.DB, c *common.Cache, logger *slog.Logger, uploadDir string) *BlogService {
	return &BlogService{
		m:         newBlogModel(db),
		c:         c,
		logger:    logger,
		uploadDir: uploadDir,
	}
}

type CreateBlogRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Published bool   `json:"published"`
	UserID    int    `json:"user_id"`
}

type UpdateBlogRequest struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	Published *bool   `json:"published"`
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}

	if limit < 1 {
		limit = defaultLimit
	}

	if limit > maxLimit {
		limit = maxLimit
	}

	return page, limit
}

// List returns the owner's blogs ordered by last update, newest first.
func (s *BlogService) List(ctx context.Context, ownerID, page, limit int) (*BlogList, error) {
	v := common.NewValidator()
	validateInt(v, ownerID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	page, limit = normalizePage(page, limit)

	blogs, total, err := s.m.listByOwner(ctx, ownerID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	return &BlogList{
		Blogs:      blogs,
		Pagination: Metadata{Page: page, Limit: limit, Total: total},
	}, nil
}

// Get returns a blog owned by ownerID. A blog owned by another user fails
// with the same error as a missing one.
func (s *BlogService) Get(ctx context.Context, id, ownerID int) (*Blog, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	validateInt(v, ownerID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getByOwner(ctx, id, ownerID)
}

// Create persists a new blog for the owner. Published defaults to false.
func (s *BlogService) Create(ctx context.Context, req *CreateBlogRequest) (*Blog, error) {
	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateInt(v, req.UserID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog := Blog{
		Title:     req.Title,
		Content:   req.Content,
		Published: req.Published,
		UserID:    req.UserID,
	}

	err := s.m.insert(ctx, &blog)
	if err != nil {
		return nil, err
	}

	s.invalidatePublished()

	return &blog, nil
}

// Update applies a partial merge on top of the stored row and returns the
// re-read result.
func (s *BlogService) Update(ctx context.Context, id, ownerID int, req *UpdateBlogRequest) (*Blog, error) {
	blog, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		blog.Title = *req.Title
	}
	if req.Content != nil {
		blog.Content = *req.Content
	}
	if req.Published != nil {
		blog.Published = *req.Published
	}

	v := common.NewValidator()
	validateTitle(v, blog.Title)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	err = s.m.update(ctx, blog)
	if err != nil {
		return nil, err
	}

	s.invalidatePublished()

	return s.m.getByOwner(ctx, id, ownerID)
}

// Remove deletes the blog row along with its stored image file. File
// cleanup is best effort: a failure is logged and never blocks the delete.
func (s *BlogService) Remove(ctx context.Context, id, ownerID int) error {
	blog, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return err
	}

	if blog.Image != nil {
		s.removeImageFile(*blog.Image)
	}

	err = s.m.delete(ctx, id, ownerID)
	if err != nil {
		return err
	}

	s.invalidatePublished()

	return nil
}

// ListPublished returns published blogs from all users with the owner's
// email projected alongside each blog.
func (s *BlogService) ListPublished(ctx context.Context, page, limit int) (*BlogList, error) {
	page, limit = normalizePage(page, limit)

	key := common.CacheKeyPublishedBlogs(page, limit)
	if cached, ok := s.c.Get(key); ok {
		return cached.(*BlogList), nil
	}

	blogs, total, err := s.m.listPublished(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	list := &BlogList{
		Blogs:      blogs,
		Pagination: Metadata{Page: page, Limit: limit, Total: total},
	}

	s.c.Set(key, list)

	return list, nil
}

// GetPublished returns a single published blog regardless of owner.
func (s *BlogService) GetPublished(ctx context.Context, id int) (*Blog, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	key := common.CacheKeyPublishedBlog(id)
	if cached, ok := s.c.Get(key); ok {
		return cached.(*Blog), nil
	}

	blog, err := s.m.getPublishedByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.c.Set(key, blog)

	return blog, nil
}

// ListPublishedByOwner returns one user's published blogs.
func (s *BlogService) ListPublishedByOwner(ctx context.Context, ownerID, page, limit int) (*BlogList, error) {
	v := common.NewValidator()
	validateInt(v, ownerID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	page, limit = normalizePage(page, limit)

	key := common.CacheKeyPublishedBlogsByUser(ownerID, page, limit)
	if cached, ok := s.c.Get(key); ok {
		return cached.(*BlogList), nil
	}

	blogs, total, err := s.m.listPublishedByOwner(ctx, ownerID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	list := &BlogList{
		Blogs:      blogs,
		Pagination: Metadata{Page: page, Limit: limit, Total: total},
	}

	s.c.Set(key, list)

	return list, nil
}

// AttachImage records the stored file path on the blog. The previous path,
// if any, is simply overwritten.
func (s *BlogService) AttachImage(ctx context.Context, id, ownerID int, imagePath string) (*Blog, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	validateInt(v, ownerID, "user_id")
	v.Check(imagePath != "", "image", "must be provided")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if _, err := s.Get(ctx, id, ownerID); err != nil {
		return nil, err
	}

	blog, err := s.m.setImage(ctx, id, ownerID, &imagePath)
	if err != nil {
		return nil, err
	}

	s.invalidatePublished()

	return blog, nil
}

// DetachImage deletes the stored file best effort and clears the image
// column. Calling it again when no image is attached is not an error.
func (s *BlogService) DetachImage(ctx context.Context, id, ownerID int) (*Blog, error) {
	blog, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if blog.Image != nil {
		s.removeImageFile(*blog.Image)
	}

	blog, err = s.m.setImage(ctx, id, ownerID, nil)
	if err != nil {
		return nil, err
	}

	s.invalidatePublished()

	return blog, nil
}

// invalidatePublished drops all cached published projections. The cache
// only ever holds published reads, so a full flush is safe.
func (s *BlogService) invalidatePublished() {
	s.c.Flush()
}
