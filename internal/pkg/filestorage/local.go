package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/campusbeacon/api/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PublicPrefix is the route stored files are served under.
const PublicPrefix = "/uploads"

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // The root directory where files will be stored
	baseURL  string // Public origin prepended to PublicPrefix
	maxBytes int64
	logger   zerolog.Logger
}

// NewLocalStorage creates a new LocalStorage instance.
// maxBytes <= 0 disables the size check.
func NewLocalStorage(basePath, baseURL string, maxBytes int64) (*LocalStorage, error) {
	log := logger.Component("filestorage")
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		log.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	log.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: maxBytes,
		logger:   log,
	}, nil
}

// BasePath returns the directory files are written to.
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// SaveFileWithPath saves a file to a specified subdirectory
func (ls *LocalStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (*FileInfo, error) {
	if fileHeader == nil {
		return nil, ErrNoFileUpload
	}
	if ls.maxBytes > 0 && fileHeader.Size > ls.maxBytes {
		return nil, ErrFileTooLarge
	}

	subPath = strings.Trim(path.Clean("/"+filepath.ToSlash(subPath)), "/")

	file, err := fileHeader.Open()
	if err != nil {
		ls.logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	fullDirPath := filepath.Join(ls.basePath, filepath.FromSlash(subPath))
	if err := os.MkdirAll(fullDirPath, 0o755); err != nil {
		ls.logger.Error().Err(err).Str("path", fullDirPath).Msg("Failed to create subdirectory")
		return nil, fmt.Errorf("failed to create subdirectory: %w", err)
	}

	// Unique names prevent collisions between uploads with the same name
	uniqueFilename := uuid.New().String() + strings.ToLower(filepath.Ext(fileHeader.Filename))
	dstPath := filepath.Join(fullDirPath, uniqueFilename)

	dst, err := os.Create(dstPath)
	if err != nil {
		ls.logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, file)
	if err != nil {
		ls.logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("failed to save file content: %w", err)
	}

	key := path.Join(subPath, uniqueFilename)
	ls.logger.Info().Str("filename", fileHeader.Filename).Str("key", key).Int64("size", written).Msg("File saved successfully")

	return &FileInfo{
		Path:     key,
		Filename: filepath.Base(fileHeader.Filename),
		FileSize: written,
		MimeType: fileHeader.Header.Get("Content-Type"),
	}, nil
}

// resolve maps a storage key to a filesystem path inside basePath.
func (ls *LocalStorage) resolve(key string) (string, error) {
	key = strings.TrimPrefix(filepath.ToSlash(key), PublicPrefix+"/")
	cleaned := path.Clean("/" + key)
	if key == "" || cleaned == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, key)
	}
	return filepath.Join(ls.basePath, filepath.FromSlash(strings.TrimPrefix(cleaned, "/"))), nil
}

// DeleteFile removes a file from the storage filesystem.
// Missing files are not an error.
func (ls *LocalStorage) DeleteFile(key string) error {
	if key == "" {
		return nil
	}

	physicalPath, err := ls.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(physicalPath); err != nil {
		if os.IsNotExist(err) {
			ls.logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		ls.logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	ls.logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

// URL returns the public URL of a stored file.
func (ls *LocalStorage) URL(key string) string {
	if key == "" {
		return ""
	}
	return ls.baseURL + PublicPrefix + "/" + strings.TrimPrefix(key, "/")
}
