package common

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for better error classification
type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeConfiguration ErrorType = "configuration"
	ErrorTypeParse         ErrorType = "parse"
	ErrorTypeFilterSyntax  ErrorType = "filter_syntax"
	ErrorTypeNotFound      ErrorType = "not_found"
	ErrorTypeIO            ErrorType = "io"
	ErrorTypeStorage       ErrorType = "storage"
	ErrorTypeInternal      ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type    ErrorType
	Message string
	Field   string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Err.Error())
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// IsRecoverable determines if the run can continue past this error.
// Only per-input failures are recoverable: the input is skipped.
func (e *AppError) IsRecoverable() bool {
	switch e.Type {
	case ErrorTypeParse, ErrorTypeNotFound:
		return true
	default:
		return false
	}
}

// Error constructors
func NewValidationError(field, message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Field:   field,
		Message: message,
	}
}

func NewConfigurationError(field, message string) *AppError {
	return &AppError{
		Type:    ErrorTypeConfiguration,
		Field:   field,
		Message: message,
	}
}

// NewParseError reports a malformed scan document
func NewParseError(source string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeParse,
		Field:   source,
		Message: fmt.Sprintf("error in %s", source),
		Err:     err,
	}
}

// NewFilterSyntaxError reports an invalid structural filter expression
func NewFilterSyntaxError(expr string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeFilterSyntax,
		Field:   "filter-expression",
		Message: fmt.Sprintf("invalid filter expression %q", expr),
		Err:     err,
	}
}

func NewNotFoundError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
		Err:     err,
	}
}

func NewIOError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeIO,
		Message: message,
		Err:     err,
	}
}

func NewStorageError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeStorage,
		Message: message,
		Err:     err,
	}
}

func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// IsType reports whether err wraps an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// ErrorClassifier provides centralized error classification
type ErrorClassifier struct{}

func NewErrorClassifier() *ErrorClassifier {
	return &ErrorClassifier{}
}

// ClassifyError classifies an error and returns an AppError
func (c *ErrorClassifier) ClassifyError(err error) *AppError {
	if err == nil {
		return nil
	}

	// Check if it's already an AppError
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	errStr := strings.ToLower(err.Error())

	notFoundErrors := []string{
		"no such file",
		"not found",
		"blobnotfound",
		"containernotfound",
	}
	for _, e := range notFoundErrors {
		if strings.Contains(errStr, e) {
			return NewNotFoundError(err.Error(), err)
		}
	}

	parseErrors := []string{
		"xml syntax error",
		"unexpected eof",
		"element <",
		"no root element",
	}
	for _, e := range parseErrors {
		if strings.Contains(errStr, e) {
			return &AppError{Type: ErrorTypeParse, Message: err.Error(), Err: err}
		}
	}

	ioErrors := []string{
		"permission denied",
		"read-only file system",
		"no space left",
		"is a directory",
	}
	for _, e := range ioErrors {
		if strings.Contains(errStr, e) {
			return NewIOError(err.Error(), err)
		}
	}

	// Default to internal error
	return NewInternalError(err.Error(), err)
}

// IsRecoverableError determines if the run can continue past err
func (c *ErrorClassifier) IsRecoverableError(err error) bool {
	if err == nil {
		return true
	}
	return c.ClassifyError(err).IsRecoverable()
}
