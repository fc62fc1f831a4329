package services

import (
	"github.com/campusbeacon/api/internal/pkg/filestorage"
	"github.com/rs/zerolog"
)

// Services defined in this package:
// - AuthService: signup, login, token rotation
// - UserService: the caller's profile
// - LostFoundService, MarketplaceService, ResourceService: listings with uploads
// - RideService: ride sharing with seat accounting
// - AttendanceService: subject tracking and attendance statistics
// - HostelService: hostels, officials, notices, menus and complaints
// - ChatService: chat rooms with realtime fan-out

// removeStoredFile deletes an upload and only logs failures.
func removeStoredFile(storage filestorage.FileStorage, logger zerolog.Logger, path string) {
	if err := storage.DeleteFile(path); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("Failed to delete stored file")
	}
}
