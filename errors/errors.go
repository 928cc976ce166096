package errors

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
)

// ErrorType represents the kind of failure an image operation reported.
type ErrorType string

const (
	// Input errors
	ErrorTypeNotFound ErrorType = "not_found"
	ErrorTypeInvalid  ErrorType = "invalid"

	// Processing errors
	ErrorTypeDecodeFailure ErrorType = "decode_failure"
	ErrorTypeWriteFailure  ErrorType = "write_failure"

	// System errors
	ErrorTypeCanceled ErrorType = "canceled"
	ErrorTypeInternal ErrorType = "internal"
	ErrorTypeUnknown  ErrorType = "unknown"
)

// Sentinel values usable with errors.Is; matching is by type only.
var (
	KindNotFound      = &AppError{Type: ErrorTypeNotFound}
	KindDecodeFailure = &AppError{Type: ErrorTypeDecodeFailure}
	KindWriteFailure  = &AppError{Type: ErrorTypeWriteFailure}
)

// AppError represents a structured error
type AppError struct {
	Type       ErrorType      `json:"type"`
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	InnerError error          `json:"-"`
	Stack      []string       `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Type)
	}
	if e.InnerError != nil {
		return msg + ": " + e.InnerError.Error()
	}
	return msg
}

// Unwrap returns the inner error
func (e *AppError) Unwrap() error {
	return e.InnerError
}

// WithCode adds a code to the error
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithDetail adds a detail to the error
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithStack captures the call stack
func (e *AppError) WithStack() *AppError {
	e.Stack = captureStack(3)
	return e
}

// Is reports whether target is an AppError of the same type.
func (e *AppError) Is(target error) bool {
	if targetApp, ok := target.(*AppError); ok {
		return e.Type == targetApp.Type
	}
	return false
}

// New creates a new AppError
func New(errType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Code:    string(errType),
	}
}

// FromError converts a standard error to AppError. Wrapped AppErrors are
// found through the chain.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	return &AppError{
		Type:       ErrorTypeUnknown,
		Code:       string(ErrorTypeUnknown),
		Message:    err.Error(),
		InnerError: err,
	}
}

// WrapWithType wraps an error with a specific type
func WrapWithType(err error, errType ErrorType, message string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		InnerError: err,
		Code:       string(errType),
	}
}

// TypeOf returns the ErrorType carried by err, or ErrorTypeUnknown.
func TypeOf(err error) ErrorType {
	if err == nil {
		return ""
	}
	return FromError(err).Type
}

// IsType reports whether err carries the given type anywhere in its chain.
func IsType(err error, errType ErrorType) bool {
	return errors.Is(err, &AppError{Type: errType})
}

func NewNotFound(resource string, path string) *AppError {
	return New(ErrorTypeNotFound, fmt.Sprintf("%s not found", path)).
		WithDetail("resource", resource).
		WithDetail("path", path)
}

func NewInvalid(field string, value any, reason string) *AppError {
	return New(ErrorTypeInvalid, fmt.Sprintf("invalid value for %s: %v (%s)", field, value, reason)).
		WithDetail("field", field).
		WithDetail("value", value).
		WithDetail("reason", reason)
}

func NewDecodeFailure(path string, err error) *AppError {
	return WrapWithType(err, ErrorTypeDecodeFailure, fmt.Sprintf("cannot decode %s", path)).
		WithDetail("path", path)
}

func NewWriteFailure(path string, err error) *AppError {
	return WrapWithType(err, ErrorTypeWriteFailure, fmt.Sprintf("cannot write %s", path)).
		WithDetail("path", path)
}

func NewCanceled(err error) *AppError {
	return WrapWithType(err, ErrorTypeCanceled, "operation canceled")
}

// ExitCode maps an error to a process exit status. nil is success.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch TypeOf(err) {
	case ErrorTypeInvalid:
		return 2
	case ErrorTypeCanceled:
		return 130
	default:
		return 1
	}
}

// ErrorFormatter formats errors for display
type ErrorFormatter struct {
	showStack   bool
	showDetails bool
}

// NewErrorFormatter creates a new error formatter
func NewErrorFormatter(showStack bool, showDetails bool) *ErrorFormatter {
	return &ErrorFormatter{
		showStack:   showStack,
		showDetails: showDetails,
	}
}

// Format formats an error as a single human-readable line, plus the stack
// when enabled.
func (f *ErrorFormatter) Format(err error) string {
	if err == nil {
		return ""
	}

	appErr := FromError(err)

	var parts []string
	parts = append(parts, fmt.Sprintf("Error [%s]: %s", appErr.Type, appErr.Error()))

	if f.showDetails && len(appErr.Details) > 0 {
		keys := make([]string, 0, len(appErr.Details))
		for k := range appErr.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, appErr.Details[k]))
		}
	}

	if f.showStack && len(appErr.Stack) > 0 {
		parts = append(parts, "stack:")
		for _, s := range appErr.Stack {
			parts = append(parts, "  "+s)
		}
	}

	return strings.Join(parts, " | ")
}

// ErrorRecover converts a recovered panic value into an internal error.
// Use as: defer func() { err = errors.ErrorRecover(recover(), err) }()
func ErrorRecover(r any, current error) error {
	if r == nil {
		return current
	}
	var inner error
	switch v := r.(type) {
	case error:
		inner = v
	case string:
		inner = errors.New(v)
	default:
		inner = fmt.Errorf("%v", v)
	}
	return WrapWithType(inner, ErrorTypeInternal, "unexpected panic").WithStack()
}

// captureStack captures the call stack
func captureStack(skip int) []string {
	var stack []string
	for i := skip; i < 10; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		funcName := fn.Name()
		if idx := strings.LastIndex(funcName, "/"); idx >= 0 {
			funcName = funcName[idx+1:]
		}

		stack = append(stack, fmt.Sprintf("%s:%d %s", file, line, funcName))
	}
	return stack
}
