// Package errors provides the validation failure type and its kind taxonomy.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Kind identifies the invariant (or layer) that failed
type Kind string

const (
	// KindSumMismatch indicates a percentage or vote sum differs from its target
	KindSumMismatch Kind = "SUM_MISMATCH"

	// KindOutOfRange indicates a scalar outside its bounds or date window
	KindOutOfRange Kind = "OUT_OF_RANGE"

	// KindOrderingViolation indicates two quantities violate a <= relationship
	KindOrderingViolation Kind = "ORDERING_VIOLATION"

	// KindUnknownValue indicates a name missing from its whitelist
	KindUnknownValue Kind = "UNKNOWN_VALUE"

	// KindShapeMismatch indicates matrix dimensions differ from declared counts
	KindShapeMismatch Kind = "SHAPE_MISMATCH"

	// KindOrphanKey indicates a hypothesis key used without being declared
	KindOrphanKey Kind = "ORPHAN_KEY"

	// KindDuplicateValue indicates a repeated name where names must be unique
	KindDuplicateValue Kind = "DUPLICATE_VALUE"

	// KindMissingValue indicates a required value is empty
	KindMissingValue Kind = "MISSING_VALUE"

	// KindMalformed indicates a record that could not be decoded
	KindMalformed Kind = "MALFORMED"

	// KindConfig indicates a configuration error
	KindConfig Kind = "CONFIG_ERROR"

	// KindInput indicates an unreadable or unusable input document
	KindInput Kind = "INPUT_ERROR"

	// KindInternal indicates an internal error
	KindInternal Kind = "INTERNAL_ERROR"
)

// Error is a validation failure with the location it occurred at
type Error struct {
	Kind    Kind                   `json:"kind"`
	Message string                 `json:"message"`
	Path    []string               `json:"path,omitempty"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(string(e.Kind))
	b.WriteString("] ")
	if len(e.Path) > 0 {
		b.WriteString(e.Location())
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether the error is of kind k
func (e *Error) Is(k Kind) bool {
	return e.Kind == k
}

// Location renders the path as a dotted locator, e.g. premier_tour[h1].intentions
func (e *Error) Location() string {
	var b strings.Builder
	for i, seg := range e.Path {
		if i > 0 && !strings.HasPrefix(seg, "[") {
			b.WriteString(".")
		}
		b.WriteString(seg)
	}
	return b.String()
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(kind Kind, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// At prefixes the path of a validation failure with the given segments.
// Errors that are not *Error are wrapped as internal errors first so the
// location is never lost.
func At(err error, segments ...string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if !stderrors.As(err, &e) {
		e = Wrap(KindInternal, "unexpected failure", err)
	}
	path := make([]string, 0, len(segments)+len(e.Path))
	path = append(path, segments...)
	path = append(path, e.Path...)
	out := *e
	out.Path = path
	return &out
}

// Index formats a sequence index path segment
func Index(i int) string {
	return fmt.Sprintf("[%d]", i)
}

// Key formats a mapping key path segment
func Key(k string) string {
	return "[" + k + "]"
}

// KindOf returns the kind of err, or "" when err is not a validation failure
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind checks if an error is of a specific kind
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}

// As is errors.As re-exported so callers need a single errors import
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Malformed creates a decoding error
func Malformed(message string, cause error) *Error {
	return Wrap(KindMalformed, message, cause)
}

// Config creates a configuration error
func Config(message string, cause error) *Error {
	return Wrap(KindConfig, message, cause)
}

// Input creates an input error
func Input(message string, cause error) *Error {
	return Wrap(KindInput, message, cause)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(KindInternal, message, cause)
}
