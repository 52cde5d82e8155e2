package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Environment discovery
	ErrEnvironment ErrorCode = "ENVIRONMENT"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Safety gate: a live entry could not be proven equal to its backup
	ErrVerification ErrorCode = "VERIFICATION"

	// Filesystem errors
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrFileRead      ErrorCode = "FILE_READ"
	ErrFileWrite     ErrorCode = "FILE_WRITE"
	ErrDirCreate     ErrorCode = "DIR_CREATE"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrRemove        ErrorCode = "REMOVE"
	ErrUnknownKind   ErrorCode = "UNKNOWN_KIND"

	// Backup errors
	ErrBackupExists ErrorCode = "BACKUP_EXISTS"

	// Subprocess errors
	ErrCommandSpawn  ErrorCode = "COMMAND_SPAWN"
	ErrCommandFailed ErrorCode = "COMMAND_FAILED"
	ErrScriptsDir    ErrorCode = "SCRIPTS_DIR"
)

// InstallerError represents a structured error with code and details
type InstallerError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *InstallerError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *InstallerError) Unwrap() error {
	return e.Wrapped
}

// Is matches any InstallerError carrying the same code
func (e *InstallerError) Is(target error) bool {
	var targetErr *InstallerError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new InstallerError with the given code and message
func New(code ErrorCode, message string) *InstallerError {
	return &InstallerError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new InstallerError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *InstallerError {
	return &InstallerError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an InstallerError
func Wrap(err error, code ErrorCode, message string) *InstallerError {
	if err == nil {
		return nil
	}
	return &InstallerError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *InstallerError {
	if err == nil {
		return nil
	}
	return &InstallerError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *InstallerError) WithDetail(key string, value interface{}) *InstallerError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var ie *InstallerError
	if errors.As(err, &ie) {
		return ie.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an InstallerError
func GetErrorCode(err error) ErrorCode {
	var ie *InstallerError
	if errors.As(err, &ie) {
		return ie.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an InstallerError
func GetErrorDetails(err error) map[string]interface{} {
	var ie *InstallerError
	if errors.As(err, &ie) {
		return ie.Details
	}
	return nil
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
