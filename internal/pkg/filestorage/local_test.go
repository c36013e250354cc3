package filestorage

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

func newFileHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("resume", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["resume"][0]
}

func TestSaveAndDeleteWithBaseURL(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewLocalStorage(dir, "http://localhost:8080/uploads")
	require.NoError(t, err)

	url, err := storage.SaveFileWithPath(newFileHeader(t, "cv.pdf", "%PDF-1.4"), "resumes")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/resumes/"))
	assert.True(t, strings.HasSuffix(url, ".pdf"))

	path := storage.GetFullPath(url)
	assert.Equal(t, filepath.Join(dir, "resumes", filepath.Base(url)), path)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(content))

	require.NoError(t, storage.DeleteFile(url))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Deleting twice is not an error
	assert.NoError(t, storage.DeleteFile(url))
}

func TestSaveWithoutBaseURL(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewLocalStorage(dir, "")
	require.NoError(t, err)

	path, err := storage.SaveFile(newFileHeader(t, "notes.docx", "x"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.ToSlash(path), "uploads/"))
	assert.FileExists(t, storage.GetFullPath(path))
}

func TestGetFullPathRejectsTraversal(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	assert.Empty(t, storage.GetFullPath("http://localhost:8080/uploads/../../etc/passwd"))
	assert.Empty(t, storage.GetFullPath("../secret"))
	assert.Error(t, storage.DeleteFile("uploads/"))
}

func TestSaveNilHeader(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	path, err := storage.SaveFile(nil)
	assert.NoError(t, err)
	assert.Empty(t, path)
}
