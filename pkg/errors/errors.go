// Package errors provides the unified error type and factory functions for
// Uni-Dock.  Validation, engine, device and integration layers all report
// failures as *AppError so that the command-line boundary can render one
// user-facing message and one exit code per failure category.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// stackDepth is the maximum number of frames captured per error.
const stackDepth = 32

// captureStack returns a formatted call-stack string starting two frames above
// the caller (skipping captureStack itself and the factory function).
func captureStack(skip int) string {
	pcs := make([]uintptr, stackDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		f, more := frames.Next()
		if !strings.Contains(f.File, "runtime/") {
			fmt.Fprintf(&sb, "\n\t%s:%d %s", f.File, f.Line, f.Function)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// ─────────────────────────────────────────────────────────────────────────────
// AppError
// ─────────────────────────────────────────────────────────────────────────────

// AppError is the single structured error type used throughout Uni-Dock.
// It supports Go 1.13+ wrapping so errors.Is / errors.As / errors.Unwrap work
// across package boundaries.
//
// Usage:
//
//	return errors.Configuration("cannot specify both receptor and affinity maps")
//	return errors.FileAccess(path, true, err)
//	return errors.Wrap(err, errors.CodeEngineInternal, "global search failed")
type AppError struct {
	// Code identifies the failure category.
	Code ErrorCode

	// Message is the primary human-readable description.
	Message string

	// Detail carries supplementary context such as a file path or a batch index.
	Detail string

	// Cause is the underlying error, if any.
	Cause error

	// Stack is the call stack captured at construction.  It is never part of
	// Error() output.
	Stack string

	// Path is the file a FileAccess error refers to.
	Path string

	// ForReading distinguishes read from write intent for FileAccess errors.
	ForReading bool

	// Location is the originating "file(line)" of an engine invariant violation.
	Location string
}

// Error implements the error interface.
// Format: "[<code>] <message>: <detail>: <cause>", omitting empty segments.
func (e *AppError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s", e.Code, e.Message)
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying cause error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail returns a shallow copy of the receiver with Detail set.
// It is safe to call on a nil pointer.
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithCause returns a shallow copy of the receiver with Cause set to err.
func (e *AppError) WithCause(err error) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Cause = err
	return &clone
}

// ─────────────────────────────────────────────────────────────────────────────
// Primary factory functions
// ─────────────────────────────────────────────────────────────────────────────

// New constructs a fresh AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Newf is New with fmt-style formatting of the message.
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(1),
	}
}

// Wrap constructs an AppError that wraps err.  It returns nil for a nil err.
// When err already carries an *AppError and code is CodeUnknown the original
// code is preserved.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	if code == CodeUnknown {
		var ae *AppError
		if errors.As(err, &ae) {
			code = ae.Code
		}
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
		Stack:   captureStack(1),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Error-chain inspection helpers
// ─────────────────────────────────────────────────────────────────────────────

// IsCode reports whether any error in err's chain is an *AppError with code.
func IsCode(err error, code ErrorCode) bool {
	var ae *AppError
	for err != nil {
		if errors.As(err, &ae) && ae.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode extracts the ErrorCode from the first *AppError in err's chain.
// A nil error yields CodeOK; a foreign error yields CodeUnknown.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

// As is re-exported so callers need not import the standard errors package
// alongside this one.
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Is is re-exported for the same reason as As.
func Is(err, target error) bool { return errors.Is(err, target) }

// ─────────────────────────────────────────────────────────────────────────────
// Category constructors
// ─────────────────────────────────────────────────────────────────────────────

// Configuration reports a bad or contradictory option combination.
func Configuration(message string) *AppError {
	return &AppError{
		Code:    CodeConfiguration,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Configurationf is Configuration with fmt-style formatting.
func Configurationf(format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    CodeConfiguration,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(1),
	}
}

// ParseFailure reports an unparsable command line or option file.
func ParseFailure(source string, cause error) *AppError {
	return &AppError{
		Code:    CodeOptionParse,
		Message: source + " parse error",
		Cause:   cause,
		Stack:   captureStack(1),
	}
}

// FileAccess reports a missing or unreadable input, or an unwritable output.
func FileAccess(path string, forReading bool, cause error) *AppError {
	code := CodeFileRead
	intent := "reading"
	if !forReading {
		code = CodeFileWrite
		intent = "writing"
	}
	return &AppError{
		Code:       code,
		Message:    fmt.Sprintf("could not open %q for %s", path, intent),
		Cause:      cause,
		Stack:      captureStack(1),
		Path:       path,
		ForReading: forReading,
	}
}

// ResourceExhausted reports an allocation failure on host or device.
func ResourceExhausted(message string) *AppError {
	return &AppError{
		Code:    CodeResourceExhausted,
		Message: message,
		Stack:   captureStack(1),
	}
}

// EngineInternal reports an invariant violated inside the docking engine.
// file and line name the originating location as reported by the engine.
func EngineInternal(file string, line int, message string) *AppError {
	loc := ""
	if file != "" {
		loc = fmt.Sprintf("%s(%d)", file, line)
	}
	return &AppError{
		Code:     CodeEngineInternal,
		Message:  message,
		Stack:    captureStack(1),
		Location: loc,
	}
}

//Personal.AI order the ending
