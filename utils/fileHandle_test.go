package utils

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["image"][0]
}

func TestStoreCourseImage(t *testing.T) {
	dir := t.TempDir()

	url, err := StoreCourseImage(uploadHeader(t, "photo.png", "not really a png"), dir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/"))
	assert.Equal(t, ".png", filepath.Ext(url))

	stored, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(url, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, "not really a png", string(stored))

	// Same client filename, distinct stored names
	url2, err := StoreCourseImage(uploadHeader(t, "photo.png", "other"), dir)
	require.NoError(t, err)
	assert.NotEqual(t, url, url2)
}
