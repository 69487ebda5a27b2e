package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a business error kind
type ErrorCode string

const (
	// Auth errors
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
	ErrCodeMissingToken ErrorCode = "MISSING_TOKEN"
	ErrCodeInvalidRole  ErrorCode = "INVALID_ROLE"

	// Occupancy errors
	ErrCodeBedNotFound         ErrorCode = "BED_NOT_FOUND"
	ErrCodeBedUnavailable      ErrorCode = "BED_UNAVAILABLE"
	ErrCodeBedAlreadyAvailable ErrorCode = "BED_ALREADY_AVAILABLE"
	ErrCodeRoomNotFound        ErrorCode = "ROOM_NOT_FOUND"
	ErrCodeResidentNotFound    ErrorCode = "RESIDENT_NOT_FOUND"
	ErrCodeAlreadyAssigned     ErrorCode = "ALREADY_ASSIGNED"
	ErrCodeInvalidBedNumber    ErrorCode = "INVALID_BED_NUMBER"
	ErrCodeReservationConflict ErrorCode = "RESERVATION_CONFLICT"
	ErrCodeInvalidNoticeWindow ErrorCode = "INVALID_NOTICE_WINDOW"
	ErrCodeInvalidStatus       ErrorCode = "INVALID_STATUS"

	// Database errors
	ErrCodeDBError    ErrorCode = "DB_ERROR"
	ErrCodeDBNotFound ErrorCode = "DB_NOT_FOUND"

	// Validation errors
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeRequiredField ErrorCode = "REQUIRED_FIELD"
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"
)

// AppError is the application error carried across service boundaries
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsAppError reports whether err is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts the AppError from err, or nil
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

var (
	// Bed errors
	ErrBedNotFound         = errors.New("bed not found")
	ErrBedUnavailable      = errors.New("bed already occupied")
	ErrBedAlreadyAvailable = errors.New("bed already available")
	ErrInvalidBedNumber    = errors.New("invalid bed number")

	// Room errors
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomInactive = errors.New("room is not active")

	// Resident errors
	ErrResidentNotFound = errors.New("resident not found")
	ErrAlreadyAssigned  = errors.New("resident already holds a room")

	// Reservation errors
	ErrReservationConflict = errors.New("reservation conflict")

	// Notice errors
	ErrInvalidNoticeWindow = errors.New("notice days or vacation date out of allowed bounds")

	// Validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingRequired = errors.New("missing required field")
	ErrInvalidFormat   = errors.New("invalid format")
)
