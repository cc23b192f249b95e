package blogservice

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ImagePath converts a stored file name into the public path recorded on
// the blog row.
func ImagePath(filename string) string {
	return "/uploads/" + filename
}

// removeImageFile deletes the file behind a stored image path. Only the
// base name is trusted; the file must live inside the upload directory.
func (s *BlogService) removeImageFile(imagePath string) {
	name := filepath.Base(strings.TrimPrefix(imagePath, "/uploads/"))
	if name == "." || name == string(filepath.Separator) {
		return
	}

	err := os.Remove(filepath.Join(s.uploadDir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Error("could not delete image file", slog.String("path", imagePath), slog.String("error", err.Error()))
	}
}
