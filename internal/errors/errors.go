package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"dataviz/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    Classify(err),
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid        = "CONFIG_INVALID"
	CodeValidationError      = "VALIDATION_ERROR"
	CodeNotFound             = "NOT_FOUND"
	CodeInternalError        = "INTERNAL_ERROR"
	CodeInvalidInput         = "INVALID_INPUT"
	CodeConfigIncomplete     = "CONFIG_INCOMPLETE"
	CodeConfigurationError   = "CONFIGURATION_ERROR"
	CodeDomainError          = "DOMAIN_ERROR"
	CodePayloadTooLarge      = "PAYLOAD_TOO_LARGE"
	CodeUnsupportedMediaType = "UNSUPPORTED_MEDIA_TYPE"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func ValidationError(message string) *AppError {
	return New(CodeValidationError, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func PayloadTooLarge(limitMB int) *AppError {
	return New(CodePayloadTooLarge, fmt.Sprintf("file too large (max %dMB)", limitMB))
}

func UnsupportedMediaType(ext string) *AppError {
	return New(CodeUnsupportedMediaType, fmt.Sprintf("unsupported file type %q (use .csv or .xlsx)", ext))
}

// Classify maps an error chain to a code. Domain sentinels win over any
// AppError code so wrapped pipeline failures keep their meaning.
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case core.IsConfigIncomplete(err):
		return CodeConfigIncomplete
	case core.IsDomainError(err):
		return CodeDomainError
	case core.IsConfigurationError(err):
		return CodeConfigurationError
	case core.IsNotFoundError(err):
		return CodeNotFound
	case stderrors.Is(err, core.ErrEmptyUpload), stderrors.Is(err, core.ErrParseFailure):
		return CodeInvalidInput
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternalError
}

// HTTPStatus maps an error code to the status the API responds with.
// Incomplete and domain outcomes are reported in a 200 body, not as failures.
func HTTPStatus(code string) int {
	switch code {
	case CodeConfigIncomplete, CodeDomainError:
		return http.StatusOK
	case CodeConfigurationError:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidInput, CodeValidationError, CodeConfigInvalid:
		return http.StatusBadRequest
	case CodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case CodeUnsupportedMediaType:
		return http.StatusUnsupportedMediaType
	}
	return http.StatusInternalServerError
}
