package service

import (
	"fmt"
	"net/http"

	"accio-playground-be/pkg/codegen"
	"accio-playground-be/pkg/export"
)

// ServiceError is an expected failure with a user-facing message and HTTP status.
type ServiceError struct {
	Code    int
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) StatusCode() int {
	return e.Code
}

var (
	ErrSessionNotFound = &ServiceError{
		Code:    http.StatusNotFound,
		Message: "Session not found",
	}
	ErrTurnInProgress = &ServiceError{
		Code:    http.StatusConflict,
		Message: "Another message is still being processed for this session",
	}
	ErrGenerationUnavailable = &ServiceError{
		Code:    http.StatusServiceUnavailable,
		Message: "AI service is temporarily unavailable. Please try again later.",
		Err:     codegen.ErrGenerationUnavailable,
	}
	ErrModelCatalogUnavailable = &ServiceError{
		Code:    http.StatusInternalServerError,
		Message: "Failed to fetch AI models",
	}
	ErrNothingToExport = &ServiceError{
		Code:    http.StatusNotFound,
		Message: "No generated code to export",
		Err:     export.ErrNothingToExport,
	}
)

func NewValidationError(format string, args ...interface{}) *ServiceError {
	return &ServiceError{
		Code:    http.StatusBadRequest,
		Message: fmt.Sprintf(format, args...),
	}
}
