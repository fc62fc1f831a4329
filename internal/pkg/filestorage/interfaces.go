package filestorage

import (
	"errors"
	"mime/multipart"
)

// Storage errors
var (
	ErrFileTooLarge = errors.New("file exceeds the upload size limit")
	ErrInvalidPath  = errors.New("invalid file path")
	ErrNoFileUpload = errors.New("no file uploaded")
)

// FileInfo represents information about a stored file
type FileInfo struct {
	Path     string // Storage key relative to the base directory, e.g. items/<uuid>.jpg
	Filename string // Original filename
	FileSize int64  // Size in bytes
	MimeType string // MIME type reported by the client
}

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// SaveFileWithPath stores an upload under a subdirectory
	SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (*FileInfo, error)

	// DeleteFile removes a file from storage
	DeleteFile(path string) error

	// URL returns the public URL of a stored file
	URL(path string) string
}
