// Package errors provides smart error constructors that auto-attach suggestions.
package errors

import "fmt"

// These constructors create ReportErrors and attach the suggestions registered
// for the code in the default registry.

// Config creates a configuration error with auto-attached suggestions.
func Config(code, message string) *ReportError {
	return AttachSuggestions(New(code, CategoryConfig, message))
}

// ConfigWrap wraps an error as a configuration error with auto-attached suggestions.
func ConfigWrap(cause error, code, message string) *ReportError {
	return AttachSuggestions(Wrap(cause, code, CategoryConfig, message))
}

// Input creates an input error with auto-attached suggestions.
func Input(code, message string) *ReportError {
	return AttachSuggestions(New(code, CategoryInput, message))
}

// Inputf creates an input error with a formatted message.
func Inputf(code, format string, args ...interface{}) *ReportError {
	return Input(code, fmt.Sprintf(format, args...))
}

// InputWrap wraps an error as an input error with auto-attached suggestions.
func InputWrap(cause error, code, message string) *ReportError {
	return AttachSuggestions(Wrap(cause, code, CategoryInput, message))
}

// Parse creates a parse error with auto-attached suggestions.
func Parse(code, message string) *ReportError {
	return AttachSuggestions(New(code, CategoryParse, message))
}

// Parsef creates a parse error with a formatted message.
func Parsef(code, format string, args ...interface{}) *ReportError {
	return Parse(code, fmt.Sprintf(format, args...))
}

// Validation creates a validation error with auto-attached suggestions.
func Validation(code, message string) *ReportError {
	return AttachSuggestions(New(code, CategoryValidation, message))
}

// Validationf creates a validation error with a formatted message.
func Validationf(code, format string, args ...interface{}) *ReportError {
	return Validation(code, fmt.Sprintf(format, args...))
}

// IO creates an IO error with auto-attached suggestions.
func IO(code, message string) *ReportError {
	return AttachSuggestions(New(code, CategoryIO, message))
}

// IOWrap wraps an error as an IO error with auto-attached suggestions.
func IOWrap(cause error, code, message string) *ReportError {
	return AttachSuggestions(Wrap(cause, code, CategoryIO, message))
}

// IOWrapf wraps an error as an IO error with a formatted message.
func IOWrapf(cause error, code, format string, args ...interface{}) *ReportError {
	return IOWrap(cause, code, fmt.Sprintf(format, args...))
}

// Internal creates an internal error.
func Internal(code, message string) *ReportError {
	return AttachSuggestions(New(code, CategoryInternal, message))
}
