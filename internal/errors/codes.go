// Package errors provides structured error handling for wnexport.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (file, directory, database)
//   - 4XX: Validation errors
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file, directory and database I/O errors.
	CategoryIO Category = "IO"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates the operation failed.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound  = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid   = "ERR_102_CONFIG_INVALID"
	ErrCodeFilterConflict  = "ERR_103_FILTER_CONFLICT"
	ErrCodeModeUnsupported = "ERR_104_MODE_UNSUPPORTED"

	// IO errors (200-299)
	ErrCodeFileNotFound   = "ERR_201_FILE_NOT_FOUND"
	ErrCodeFilePermission = "ERR_202_FILE_PERMISSION"
	ErrCodeReadFailed     = "ERR_203_READ_FAILED"
	ErrCodeWriteFailed    = "ERR_204_WRITE_FAILED"
	ErrCodeDatabase       = "ERR_205_DATABASE"
	ErrCodeDirNotFound    = "ERR_206_DIR_NOT_FOUND"
	ErrCodeNotADirectory  = "ERR_207_NOT_A_DIRECTORY"
	ErrCodeNoPairs        = "ERR_208_NO_PAIRS"
	ErrCodeOutputExists   = "ERR_209_OUTPUT_EXISTS"
	ErrCodeOutputLocked   = "ERR_210_OUTPUT_LOCKED"

	// Validation errors (400-499)
	ErrCodeInvalidInput = "ERR_401_INVALID_INPUT"
	ErrCodeInvalidPath  = "ERR_406_INVALID_PATH"
	ErrCodeNoWords      = "ERR_407_NO_WORDS"

	// Internal errors (500-599)
	ErrCodeInternal     = "ERR_501_INTERNAL"
	ErrCodeExportFailed = "ERR_505_EXPORT_FAILED"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Numeric portion, e.g. "101" from "ERR_101_CONFIG_NOT_FOUND"
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
// Every failure that stops a wnexport run before output is written is fatal.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeFileNotFound, ErrCodeFilePermission, ErrCodeReadFailed,
		ErrCodeWriteFailed, ErrCodeDatabase, ErrCodeNoWords, ErrCodeExportFailed:
		return SeverityFatal
	}
	return SeverityError
}
