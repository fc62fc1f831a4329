package apperrors

import "errors"

// Common errors
var (
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrUnauthenticated    = errors.New("authentication required")

	ErrPermissionDenied = errors.New("permission denied")

	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidPassword    = errors.New("invalid password")
)

// Ride errors
var (
	ErrRideNotFound       = errors.New("ride not found")
	ErrNoSeatsAvailable   = errors.New("No Seats Available")
	ErrAlreadyJoined      = errors.New("already joined this ride")
	ErrNotAPassenger      = errors.New("not a passenger of this ride")
	ErrOwnRide            = errors.New("cannot join your own ride")
	ErrRideDeparted       = errors.New("ride has already departed")
	ErrDepartureInThePast = errors.New("departure time must be in the future")
)

// Attendance errors
var (
	ErrSubjectNotFound      = errors.New("subject not found")
	ErrSubjectAlreadyExists = errors.New("subject with this code already exists")
	ErrSubjectNotTracked    = errors.New("subject is not in your list")
	ErrSubjectAlreadyAdded  = errors.New("subject already in your list")
	ErrFutureAttendance     = errors.New("attendance cannot be marked for a future date")
)

// Hostel errors
var (
	ErrHostelNotFound          = errors.New("hostel not found")
	ErrHostelAlreadyExists     = errors.New("hostel with this name already exists")
	ErrHostelHasResidents      = errors.New("hostel has residents and cannot be deleted")
	ErrComplaintNotFound       = errors.New("complaint not found")
	ErrInvalidStatusTransition = errors.New("invalid complaint status transition")
)

// Listing errors
var (
	ErrItemNotFound     = errors.New("item not found")
	ErrLostItemNotFound = errors.New("lost item not found")
	ErrMaterialNotFound = errors.New("study material not found")
	ErrFileRequired     = errors.New("file is required")
)

// Chat errors
var (
	ErrRoomNotFound      = errors.New("chat room not found")
	ErrRoomAlreadyExists = errors.New("chat room already exists")
	ErrMessageNotFound   = errors.New("chat message not found")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{Err: ErrResourceNotFound, Message: message}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{Err: ErrConflict, Message: message}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{Err: ErrPermissionDenied, Message: message}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{Err: ErrBadRequest, Message: message}
}

// NewValidationError wraps ErrValidationFailed with a field level message.
func NewValidationError(field, message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
		Details: map[string]interface{}{"field": field},
	}
}

// Is returns whether err matches target or any of errList.
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}
	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Wrap attaches a user facing message to a sentinel.
func Wrap(err error, message string) *CustomError {
	return &CustomError{Err: err, Message: message}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// MessageOf returns the user facing message of err, preferring CustomError messages.
func MessageOf(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Error()
	}
	return err.Error()
}
