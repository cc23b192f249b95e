package main

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/exp/rand"

	"postly/internal/blogservice"
	"postly/internal/common"
)

func (app *application) listBlogsHandler(w http.ResponseWriter, r *http.Request) {
	page, limit, err := app.readPageLimitParams(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := app.contextGetUser(r)

	list, err := app.blogService.List(r.Context(), user.ID, page, limit)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, "Blogs fetched successfully", list, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	user := app.contextGetUser(r)

	blog, err := app.blogService.Get(r.Context(), id, user.ID)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, "Blog fetched successfully", blog, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) createBlogHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Title     string `json:"title"`
		Content   string `json:"content"`
		Published bool   `json:"published"`
	}

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := app.contextGetUser(r)

	blog, err := app.blogService.Create(r.Context(), &blogservice.CreateBlogRequest{
		Title:     input.Title,
		Content:   input.Content,
		Published: input.Published,
		UserID:    user.ID,
	})
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, "Blog created successfully", blog, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) updateBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	var input blogservice.UpdateBlogRequest

	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := app.contextGetUser(r)

	blog, err := app.blogService.Update(r.Context(), id, user.ID, &input)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, "Blog updated successfully", blog, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	user := app.contextGetUser(r)

	err = app.blogService.Remove(r.Context(), id, user.ID)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, "Blog deleted successfully", nil, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) listPublishedBlogsHandler(w http.ResponseWriter, r *http.Request) {
	page, limit, err := app.readPageLimitParams(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	list, err := app.blogService.ListPublished(r.Context(), page, limit)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, "Blogs fetched successfully", list, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getPublishedBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	blog, err := app.blogService.GetPublished(r.Context(), id)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, "Blog fetched successfully", blog, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) listPublishedBlogsByUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := app.readIDParam(r, "userId")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	page, limit, err := app.readPageLimitParams(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	list, err := app.blogService.ListPublishedByOwner(r.Context(), userID, page, limit)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, "Blogs fetched successfully", list, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

var imageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// checkImageUpload validates the upload before anything touches disk. The
// extension check mirrors the accepted formats; the sniff guards against a
// renamed non-image file.
func checkImageUpload(file multipart.File, header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !imageExtensions[ext] {
		return "", fmt.Errorf("unsupported file extension %q", ext)
	}

	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}

	contentType := http.DetectContentType(buf[:n])
	if !imageContentTypes[contentType] {
		return "", fmt.Errorf("unsupported content type %q", contentType)
	}

	_, err = file.Seek(0, io.SeekStart)
	if err != nil {
		return "", err
	}

	return ext, nil
}

func (app *application) uploadBlogImageHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = r.ParseMultipartForm(app.config.UploadMaxBytes)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("could not parse multipart form"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		app.badRequestResponse(w, r, errors.New("an image file must be provided"))
		return
	}
	defer file.Close()

	ext, err := checkImageUpload(file, header)
	if err != nil {
		app.failedValidationResponse(w, r, map[string]string{"image": "must be a jpg, jpeg, png or gif file"})
		return
	}

	filename := fmt.Sprintf("image-%d-%d%s", time.Now().UnixMilli(), rand.Intn(1_000_000_000), ext)
	dst := filepath.Join(app.config.UploadDir, filename)

	out, err := os.Create(dst)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	_, err = io.Copy(out, file)
	out.Close()
	if err != nil {
		os.Remove(dst)
		app.serverErrorResponse(w, r, err)
		return
	}

	user := app.contextGetUser(r)

	blog, err := app.blogService.AttachImage(r.Context(), id, user.ID, blogservice.ImagePath(filename))
	if err != nil {
		os.Remove(dst)
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, "Image uploaded successfully", blog, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteBlogImageHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	user := app.contextGetUser(r)

	blog, err := app.blogService.DetachImage(r.Context(), id, user.ID)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, "Image removed successfully", blog, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// blogErrorResponse maps the service errors shared by most blog handlers.
func (app *application) blogErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr common.ValidationError

	switch {
	case errors.Is(err, blogservice.ErrRecordNotFound):
		app.notFoundResponse(w, r)
	case errors.As(err, &validationErr):
		app.failedValidationResponse(w, r, validationErr.Errors)
	default:
		app.serverErrorResponse(w, r, err)
	}
}
