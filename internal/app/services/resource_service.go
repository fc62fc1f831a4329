package services

import (
	"context"
	"mime/multipart"
	"strings"

	appauth "github.com/campusbeacon/api/internal/app/auth"
	"github.com/campusbeacon/api/internal/app/models"
	"github.com/campusbeacon/api/internal/app/models/dto"
	"github.com/campusbeacon/api/internal/pkg/apperrors"
	"github.com/campusbeacon/api/internal/pkg/filestorage"
	"github.com/campusbeacon/api/internal/pkg/helpers"
	"github.com/campusbeacon/api/internal/pkg/validation"
	"github.com/rs/zerolog"
)

const materialDir = "materials"

// MaterialStore persists study materials
type MaterialStore interface {
	List(ctx context.Context, filter dto.MaterialFilter, offset uint64, limit int) ([]*models.StudyMaterial, int64, error)
	GetByID(ctx context.Context, id int64) (*models.StudyMaterial, error)
	Create(ctx context.Context, m *models.StudyMaterial) error
	IncrementDownloads(ctx context.Context, id int64) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// ResourceService handles shared study materials
type ResourceService struct {
	repo    MaterialStore
	storage filestorage.FileStorage
	logger  zerolog.Logger
}

// NewResourceService creates a new ResourceService
func NewResourceService(repo MaterialStore, storage filestorage.FileStorage, logger zerolog.Logger) *ResourceService {
	return &ResourceService{repo: repo, storage: storage, logger: logger}
}

func (s *ResourceService) withFileURL(m *models.StudyMaterial) *models.StudyMaterial {
	m.FileURL = s.storage.URL(m.FilePath)
	return m
}

// List returns one page of materials, newest first
func (s *ResourceService) List(ctx context.Context, filter dto.MaterialFilter, page, size int) (*dto.PaginatedResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	materials, total, err := s.repo.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, err
	}
	for _, m := range materials {
		s.withFileURL(m)
	}
	return &dto.PaginatedResponse{
		Items:      materials,
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

// Get returns a material by ID
func (s *ResourceService) Get(ctx context.Context, id int64) (*models.StudyMaterial, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withFileURL(m), nil
}

// Upload stores a file and records it as a study material
func (s *ResourceService) Upload(ctx context.Context, p appauth.Principal, req *dto.CreateMaterialRequest, file *multipart.FileHeader) (*models.StudyMaterial, error) {
	if file == nil {
		return nil, apperrors.ErrFileRequired
	}

	info, err := s.storage.SaveFileWithPath(file, materialDir)
	if err != nil {
		return nil, err
	}

	m := &models.StudyMaterial{
		UploaderID:  p.UserID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Branch:      strings.ToUpper(strings.TrimSpace(req.Branch)),
		Semester:    req.Semester,
		SubjectCode: validation.NormalizeSubjectCode(req.SubjectCode),
		Type:        req.Type,
		FilePath:    info.Path,
		FileName:    info.Filename,
		FileSize:    info.FileSize,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		removeStoredFile(s.storage, s.logger, info.Path)
		return nil, err
	}

	s.logger.Info().Int64("materialID", m.ID).Int64("uploaderID", p.UserID).Str("file", info.Filename).Msg("Study material uploaded")
	return s.Get(ctx, m.ID)
}

// Download counts a download and returns where the file can be fetched
func (s *ResourceService) Download(ctx context.Context, id int64) (*dto.DownloadResponse, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	downloads, err := s.repo.IncrementDownloads(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.DownloadResponse{
		FileURL:   s.storage.URL(m.FilePath),
		FileName:  m.FileName,
		Downloads: downloads,
	}, nil
}

// Delete removes a material and its file. The uploader or an admin may do so.
func (s *ResourceService) Delete(ctx context.Context, p appauth.Principal, id int64) error {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := appauth.RequireOwnerOrAdmin(p, m.UploaderID, "study material"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	removeStoredFile(s.storage, s.logger, m.FilePath)

	s.logger.Info().Int64("materialID", id).Msg("Study material deleted")
	return nil
}
