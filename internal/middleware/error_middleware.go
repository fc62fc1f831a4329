package middleware

import (
	"errors"
	"net/http"

	"github.com/campusbeacon/api/internal/app/models/dto"
	"github.com/campusbeacon/api/internal/pkg/apperrors"
	"github.com/campusbeacon/api/internal/pkg/filestorage"
	"github.com/campusbeacon/api/internal/pkg/logger"
	"github.com/gin-gonic/gin"
)

// errorMapping binds a sentinel error to its HTTP status and error code
type errorMapping struct {
	err    error
	status int
	code   dto.ErrorCode
}

// errorMappings is checked in order; the first sentinel matched by errors.Is wins.
var errorMappings = []errorMapping{
	// Authentication
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
	{apperrors.ErrUnauthenticated, http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
	{apperrors.ErrTokenRevoked, http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
	{apperrors.ErrTokenNotFound, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound},
	{apperrors.ErrAccountDisabled, http.StatusForbidden, dto.ErrorCodeAccountDisabled},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden},

	// Not found
	{apperrors.ErrUserNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	{apperrors.ErrRideNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	{apperrors.ErrSubjectNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	{apperrors.ErrSubjectNotTracked, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	{apperrors.ErrHostelNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	{apperrors.ErrComplaintNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	{apperrors.ErrItemNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	{apperrors.ErrLostItemNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	{apperrors.ErrMaterialNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	{apperrors.ErrRoomNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	{apperrors.ErrMessageNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},

	// Conflicts
	{apperrors.ErrNoSeatsAvailable, http.StatusConflict, dto.ErrorCodeNoSeatsAvailable},
	{apperrors.ErrAlreadyJoined, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
	{apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
	{apperrors.ErrSubjectAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
	{apperrors.ErrSubjectAlreadyAdded, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
	{apperrors.ErrHostelAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
	{apperrors.ErrRoomAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
	{apperrors.ErrResourceAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
	{apperrors.ErrInvalidStatusTransition, http.StatusConflict, dto.ErrorCodeConflict},
	{apperrors.ErrHostelHasResidents, http.StatusConflict, dto.ErrorCodeConflict},
	{apperrors.ErrRideDeparted, http.StatusConflict, dto.ErrorCodeConflict},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeConflict},

	// Bad input
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
	{apperrors.ErrInvalidPassword, http.StatusBadRequest, dto.ErrorCodeInvalidPassword},
	{apperrors.ErrOwnRide, http.StatusBadRequest, dto.ErrorCodeBadRequest},
	{apperrors.ErrNotAPassenger, http.StatusBadRequest, dto.ErrorCodeBadRequest},
	{apperrors.ErrDepartureInThePast, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
	{apperrors.ErrFutureAttendance, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
	{apperrors.ErrFileRequired, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
	{filestorage.ErrNoFileUpload, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
	{filestorage.ErrFileTooLarge, http.StatusRequestEntityTooLarge, dto.ErrorCodeFileTooLarge},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeBadRequest},
}

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.err) {
			continue
		}

		errorDetail := dto.NewErrorDetail(m.code, m.err.Error())
		var ce *apperrors.CustomError
		if errors.As(err, &ce) {
			if ce.Message != "" {
				errorDetail.Message = ce.Message
			}
			if field, ok := ce.Details["field"].(string); ok {
				errorDetail.WithField(field)
			}
			if len(ce.Details) > 0 {
				errorDetail.WithDetails(ce.Details)
			}
		}
		c.AbortWithStatusJSON(m.status, dto.NewErrorResponse(errorDetail))
		return
	}

	// Unknown errors are logged with the route; the client gets a generic message
	logger.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("Unhandled error")
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(
		dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
	))
}
