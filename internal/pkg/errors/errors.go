// Package errors provides custom error types and error handling utilities.
package errors

import (
	"errors"
	"fmt"
)

// Error codes.
const (
	// Fatal errors: abort the whole run before any artifact is written.
	CodeConfig = "CONFIG_ERROR"
	CodeCorpus = "CORPUS_ERROR"

	// Per-record or per-artifact errors.
	CodeDetector = "DETECTOR_ERROR"
	CodeResults  = "RESULTS_ERROR"
	CodeChart    = "CHART_ERROR"
	CodeHistory  = "HISTORY_ERROR"
)

// AppError represents an application error with code and details.
type AppError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
	Err     error             `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with an AppError.
func Wrap(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithDetail adds a single detail to the error.
func (e *AppError) WithDetail(key, value string) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// Convenience constructors.

// ConfigError creates a fatal configuration error.
func ConfigError(message string, err error) *AppError {
	return Wrap(CodeConfig, message, err)
}

// CorpusError creates a fatal corpus error (missing root, no test cases).
func CorpusError(message string) *AppError {
	return New(CodeCorpus, message)
}

// DetectorError creates a per-image detector call error.
func DetectorError(message string, err error) *AppError {
	return Wrap(CodeDetector, message, err)
}

// ResultsError creates a results persistence error.
func ResultsError(message string, err error) *AppError {
	return Wrap(CodeResults, message, err)
}

// ChartError creates a chart rendering error.
func ChartError(message string, err error) *AppError {
	return Wrap(CodeChart, message, err)
}

// HistoryError creates a run-history storage error.
func HistoryError(message string, err error) *AppError {
	return Wrap(CodeHistory, message, err)
}

// Code extracts the application error code, or empty string for foreign
// errors.
func Code(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsFatal reports whether the error is structural and must abort the run,
// as opposed to a per-record error that degrades to an error-marked
// record.
func IsFatal(err error) bool {
	switch Code(err) {
	case CodeConfig, CodeCorpus:
		return true
	}
	return false
}
