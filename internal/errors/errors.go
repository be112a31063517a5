package errors

import (
	stderrors "errors"
	"fmt"
)

// WNError is the structured error type for wnexport.
// It provides rich context for error handling, logging, and user presentation.
type WNError struct {
	// Code is the unique error code (e.g., "ERR_206_DIR_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Validation, Internal).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *WNError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *WNError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with WNError.
func (e *WNError) Is(target error) bool {
	if t, ok := target.(*WNError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *WNError) WithDetail(key, value string) *WNError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
func (e *WNError) WithSuggestion(suggestion string) *WNError {
	e.Suggestion = suggestion
	return e
}

// New creates a new WNError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *WNError {
	return &WNError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates a WNError from an existing error.
// The error's message becomes the WNError message.
func Wrap(code string, err error) *WNError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *WNError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// IOError creates a read failure for an index or data file.
func IOError(message string, cause error) *WNError {
	return New(ErrCodeReadFailed, message, cause)
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *WNError {
	return New(ErrCodeInvalidInput, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *WNError {
	return New(ErrCodeInternal, message, cause)
}

// NoWordsError reports a run whose filters excluded every word.
func NoWordsError() *WNError {
	return New(ErrCodeNoWords, "No words found for given arguments!", nil).
		WithSuggestion("Relax --min-chars/--max-chars or --char-counts, or pass --keep-numbers")
}

// As returns the first WNError in err's chain.
func As(err error) (*WNError, bool) {
	var we *WNError
	if stderrors.As(err, &we) {
		return we, true
	}
	return nil, false
}

// IsFatal checks if an error has fatal severity.
func IsFatal(err error) bool {
	if we, ok := As(err); ok {
		return we.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from a WNError.
// Returns empty string if err carries no WNError.
func GetCode(err error) string {
	if we, ok := As(err); ok {
		return we.Code
	}
	return ""
}

// GetCategory extracts the category from a WNError.
func GetCategory(err error) Category {
	if we, ok := As(err); ok {
		return we.Category
	}
	return ""
}
