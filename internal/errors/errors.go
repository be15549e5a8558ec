package errors

import (
	"errors"
	"fmt"
	"time"
)

// Standard application errors
var (
	ErrEmptyInput      = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON     = errors.New("invalid JSON format")
	ErrMultipleJSON    = errors.New("multiple JSON values found at the root, only one is allowed")
	ErrFileNotFound    = errors.New("file not found")
	ErrFileEmpty       = errors.New("file is empty")
	ErrNoInput         = errors.New("no input provided: please specify a file with -i or pipe JSON data to stdin")
	ErrInvalidFilePath = errors.New("invalid file path")
)

// ErrorType categorizes errors by the stage that produced them
type ErrorType string

const (
	ErrorTypeInput    ErrorType = "input"
	ErrorTypeParsing  ErrorType = "parsing"
	ErrorTypeConfig   ErrorType = "config"
	ErrorTypeGuard    ErrorType = "guard"
	ErrorTypeEncode   ErrorType = "encode"
	ErrorTypeValidate ErrorType = "validate"
	ErrorTypeOutput   ErrorType = "output"
	ErrorTypeUnknown  ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeInput, Message: message, Err: err}
}

// NewParsingError creates a new error related to JSON parsing
func NewParsingError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeParsing, Message: message, Err: err}
}

// NewConfigError creates a new error related to configuration
func NewConfigError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeConfig, Message: message, Err: err}
}

// NewGuardError creates a new error related to pre-encode structure checks
func NewGuardError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeGuard, Message: message, Err: err}
}

// NewEncodeError creates a new error related to TOON emission
func NewEncodeError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeEncode, Message: message, Err: err}
}

// NewValidateError creates a new error related to output validation
func NewValidateError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeValidate, Message: message, Err: err}
}

// NewOutputError creates a new error related to output writing
func NewOutputError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeOutput, Message: message, Err: err}
}

// TooLargeError reports an input that exceeds the configured byte ceiling.
// Both the observed size and the limit are carried so the caller can decide
// whether to raise the limit and retry.
type TooLargeError struct {
	Size  int64
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("input too large: %d bytes (limit: %d bytes)", e.Size, e.Limit)
}

// TimeoutError reports that emission exceeded the configured wall-clock ceiling.
type TimeoutError struct {
	Limit time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout exceeded: %s", e.Limit)
}

// MaxDepthError reports nesting beyond the configured recursion ceiling.
type MaxDepthError struct {
	Limit int
}

func (e *MaxDepthError) Error() string {
	return fmt.Sprintf("maximum nesting depth (%d) exceeded", e.Limit)
}

// CircularRefError reports a simulated cycle discovered during the guard pass.
type CircularRefError struct {
	Path string
}

func (e *CircularRefError) Error() string {
	return fmt.Sprintf("circular reference detected at path: %s", e.Path)
}

// InvalidNumberError reports a numeric value with no lossless decimal form.
type InvalidNumberError struct {
	Value string
}

func (e *InvalidNumberError) Error() string {
	return fmt.Sprintf("invalid number %q: infinity or NaN not representable", e.Value)
}

// ValidationFailedError reports hard failures from the output validator.
type ValidationFailedError struct {
	Issues []string
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("output validation failed: %d issue(s): %v", len(e.Issues), e.Issues)
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeParsing:
			return fmt.Sprintf("JSON parsing error: %s", appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		case ErrorTypeGuard:
			return fmt.Sprintf("Input structure error: %s", appErr.Message)
		case ErrorTypeEncode:
			return fmt.Sprintf("TOON encoding error: %s", appErr.Message)
		case ErrorTypeValidate:
			return fmt.Sprintf("Output validation error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	var tooLarge *TooLargeError
	if errors.As(err, &tooLarge) {
		return fmt.Sprintf("Error: input is too large (%d bytes, limit %d bytes). Raise --byte-limit to proceed.", tooLarge.Size, tooLarge.Limit)
	}
	var timeout *TimeoutError
	if errors.As(err, &timeout) {
		return fmt.Sprintf("Error: conversion exceeded the %s time limit. Raise --timeout to proceed.", timeout.Limit)
	}
	var depth *MaxDepthError
	if errors.As(err, &depth) {
		return fmt.Sprintf("Error: input nesting exceeds the maximum depth of %d.", depth.Limit)
	}
	var circular *CircularRefError
	if errors.As(err, &circular) {
		return fmt.Sprintf("Error: circular reference detected at %s.", circular.Path)
	}
	var invalidNum *InvalidNumberError
	if errors.As(err, &invalidNum) {
		return "Error: the input contains a number (infinity or NaN) that TOON cannot represent."
	}
	var validation *ValidationFailedError
	if errors.As(err, &validation) {
		return fmt.Sprintf("Error: generated TOON failed validation: %v", validation.Issues)
	}

	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide valid JSON data."
	}
	if errors.Is(err, ErrInvalidJSON) {
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	}
	if errors.Is(err, ErrMultipleJSON) {
		return "Error: Multiple JSON values found. Please provide a single JSON object or array."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrFileEmpty) {
		return "Error: The specified file is empty. Please provide a file with valid JSON content."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Please specify a file with -i or pipe JSON data to stdin."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}

	return fmt.Sprintf("Error: %v", err)
}
