// Package ckerr provides standardized error handling for Chekov.
// All errors have stable, machine-readable codes, structured context, and proper wrapping.
package ckerr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Code represents a stable, machine-readable error code.
// Format: E{category}{number} where category is 1-5 and number is 001-999.
type Code string

// Error codes organized by category.
const (
	// Descriptor errors (E1xxx) - malformed constraint expressions
	ErrDescriptorInvalid Code = "E1001" // Descriptor shape is unsupported or incomplete
	ErrEmptyConjunction  Code = "E1002" // Conjunction must contain at least one part
	ErrEmptyValueSet     Code = "E1003" // Value set must contain at least one value
	ErrBadLiteral        Code = "E1004" // Value cannot be rendered as a SQL literal

	// Naming errors (E2xxx) - constraint name resolution
	ErrDuplicateConstraint Code = "E2001" // Constraint name already exists on the table
	ErrConstraintNotFound  Code = "E2002" // Named constraint does not exist on the table
	ErrNameExhausted       Code = "E2003" // Could not generate a unique anonymous name

	// Migration errors (E3xxx) - apply/rollback operations
	ErrMigrationFailed   Code = "E3001" // Migration execution failed
	ErrIrreversible      Code = "E3002" // Operation cannot be reversed
	ErrMigrationNotFound Code = "E3003" // Migration file not found
	ErrChecksumMismatch  Code = "E3004" // Migration file modified after being applied
	ErrOperationState    Code = "E3005" // Operation is not in a state that permits the action
	ErrMigrationParse    Code = "E3006" // Migration file is malformed

	// SQL errors (E4xxx) - database operations
	ErrSQLExecution  Code = "E4001" // SQL statement failed to execute
	ErrSQLConnection Code = "E4002" // Database connection failed

	// Integrity errors (E5xxx) - lock file and snapshot
	ErrLockCorrupt   Code = "E5001" // Lock file is missing or corrupted
	ErrSnapshotDrift Code = "E5002" // Snapshot does not match migration history
	ErrSnapshotParse Code = "E5003" // Snapshot file is malformed
)

// Error is the standard error type for Chekov.
// It provides structured error information with codes, context, and wrapping support.
type Error struct {
	code    Code           // Machine-readable error code
	message string         // Human-readable error message
	context map[string]any // Structured context data
	cause   error          // Wrapped underlying error
}

// Error returns the formatted error string.
// Format:
//
//	[E2001] constraint name already exists
//	  constraint: price_check
//	  table: prices
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.code, e.message))

	// Write context in sorted order for deterministic output
	if len(e.context) > 0 {
		keys := make([]string, 0, len(e.context))
		for k := range e.context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			b.WriteString(fmt.Sprintf("\n  %s: %v", k, e.context[k]))
		}
	}

	if e.cause != nil {
		b.WriteString(fmt.Sprintf("\n  cause: %v", e.cause))
	}

	return b.String()
}

// Unwrap returns the underlying cause error for errors.Unwrap compatibility.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether the target error matches this error.
// It matches if target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}

	var targetErr *Error
	if errors.As(target, &targetErr) {
		return e.code == targetErr.code
	}

	return false
}

// GetCode returns the error code.
func (e *Error) GetCode() Code {
	return e.code
}

// GetMessage returns the error message.
func (e *Error) GetMessage() string {
	return e.message
}

// GetContext returns the error context map.
func (e *Error) GetContext() map[string]any {
	return e.context
}

// With adds a key-value pair to the error context.
// Returns the error for method chaining.
func (e *Error) With(key string, value any) *Error {
	if e.context == nil {
		e.context = make(map[string]any)
	}
	e.context[key] = value
	return e
}

// WithTable adds table context to the error.
func (e *Error) WithTable(table string) *Error {
	return e.With("table", table)
}

// WithConstraint adds constraint name context to the error.
func (e *Error) WithConstraint(name string) *Error {
	return e.With("constraint", name)
}

// WithSQL adds SQL statement context to the error.
func (e *Error) WithSQL(sql string) *Error {
	return e.With("sql", sql)
}

// WithHelp adds a help suggestion to the error (displayed as "help: ...").
func (e *Error) WithHelp(help string) *Error {
	helps, _ := e.context["helps"].([]string)
	helps = append(helps, help)
	return e.With("helps", helps)
}

// Helps returns all help suggestions attached to this error.
func (e *Error) Helps() []string {
	helps, _ := e.context["helps"].([]string)
	return helps
}

// New creates a new Error with the given code and message.
func New(code Code, msg string) *Error {
	return &Error{
		code:    code,
		message: msg,
		context: make(map[string]any),
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{
		code:    code,
		message: fmt.Sprintf(format, args...),
		context: make(map[string]any),
	}
}

// Wrap creates a new Error that wraps an existing error.
func Wrap(code Code, err error, msg string) *Error {
	if err == nil {
		return New(code, msg)
	}
	return &Error{
		code:    code,
		message: msg,
		context: make(map[string]any),
		cause:   err,
	}
}

// Wrapf creates a new Error that wraps an existing error with a formatted message.
func Wrapf(code Code, err error, format string, args ...any) *Error {
	return Wrap(code, err, fmt.Sprintf(format, args...))
}

// GetErrorCode extracts the error code from an error chain.
// Returns empty string if no code is found.
func GetErrorCode(err error) Code {
	if err == nil {
		return ""
	}

	var ce *Error
	if errors.As(err, &ce) {
		return ce.code
	}

	return ""
}

// Is checks if an error has the specified code.
func Is(err error, code Code) bool {
	return GetErrorCode(err) == code
}

// HasCode checks if an error has any error code.
func HasCode(err error) bool {
	return GetErrorCode(err) != ""
}
