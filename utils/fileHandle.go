package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// StoreCourseImage writes an uploaded course image under destDir and returns
// the public URL to put on the course record. The stored name is generated,
// so concurrent uploads with the same client filename never collide.
func StoreCourseImage(file *multipart.FileHeader, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + filepath.Ext(file.Filename)
	dst, err := os.Create(filepath.Join(destDir, name))
	if err != nil {
		return "", fmt.Errorf("store %s: %w", name, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("store %s: %w", name, err)
	}

	return "/uploads/" + name, nil
}
