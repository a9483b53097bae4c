package errors

import (
	"fmt"
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
		Code:    CodeInternalError,
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
	CodeConfigInvalid       = "CONFIG_INVALID"
	CodeUnknownTemplate     = "UNKNOWN_TEMPLATE"
	CodeWorkbookUnreadable  = "WORKBOOK_UNREADABLE"
	CodeSheetNotFound       = "SHEET_NOT_FOUND"
	CodeWorksheetUnparsable = "WORKSHEET_UNPARSABLE"
	CodeInternalError       = "INTERNAL_ERROR"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func UnknownTemplate(filename string) *AppError {
	return New(CodeUnknownTemplate, fmt.Sprintf("Unknown template type: %s", filename))
}

func WorkbookUnreadable(path string, cause error) *AppError {
	return &AppError{
		Code:    CodeWorkbookUnreadable,
		Message: fmt.Sprintf("failed to load workbook %s", path),
		Cause:   cause,
	}
}

func SheetNotFound(sheetName string) *AppError {
	return New(CodeSheetNotFound, fmt.Sprintf("worksheet '%s' not found", sheetName))
}

func WorksheetUnparsable(sheetName string, cause error) *AppError {
	return &AppError{
		Code:    CodeWorksheetUnparsable,
		Message: fmt.Sprintf("failed to parse worksheet '%s'", sheetName),
		Cause:   cause,
	}
}
