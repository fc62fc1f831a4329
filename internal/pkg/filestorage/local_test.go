package filestorage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFileHeader builds a multipart.FileHeader the way a gin handler receives one.
func newFileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestLocalStorage_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir, "http://localhost:8080/", 0)
	require.NoError(t, err)

	info, err := ls.SaveFileWithPath(newFileHeader(t, "Notes.PDF", []byte("hello")), "materials")
	require.NoError(t, err)
	assert.Equal(t, "Notes.PDF", info.Filename)
	assert.Equal(t, int64(5), info.FileSize)
	assert.Equal(t, "materials", filepath.Dir(info.Path))
	assert.Equal(t, ".pdf", filepath.Ext(info.Path))
	assert.Equal(t, "http://localhost:8080/uploads/"+info.Path, ls.URL(info.Path))

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(info.Path)))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, ls.DeleteFile(info.Path))
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(info.Path)))
	assert.True(t, os.IsNotExist(err))

	// Deleting twice is fine.
	assert.NoError(t, ls.DeleteFile(info.Path))
}

func TestLocalStorage_SizeLimit(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "", 3)
	require.NoError(t, err)

	_, err = ls.SaveFileWithPath(newFileHeader(t, "big.txt", []byte("too big")), "")
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = ls.SaveFileWithPath(nil, "")
	assert.ErrorIs(t, err, ErrNoFileUpload)
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "", 0)
	require.NoError(t, err)

	assert.ErrorIs(t, ls.DeleteFile("../etc/passwd"), ErrInvalidPath)
	assert.ErrorIs(t, ls.DeleteFile("items/../../x"), ErrInvalidPath)
}
