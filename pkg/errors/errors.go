// Package errors gives treeviz failures a machine-readable [Code].
//
// The CLI prints codes next to messages and the HTTP API returns them in its
// JSON error body, so the same failure reads the same way on both surfaces.
// Codes are grouped into a [Class] that says who has to act: the author of
// the document ([ClassInput], [ClassSemantic]), the operator
// ([ClassUnavailable]), or nobody in particular ([ClassInternal]).
//
//	err := errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", name)
//	err = errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
//	errors.Is(err, errors.ErrCodeFileNotFound) // true
//
// Error types declared elsewhere (the diagram builder's typed errors, for
// instance) take part by implementing [Coder].
package errors

import (
	"errors"
	"fmt"
)

// Code is a stable, upper-snake-case failure identifier.
type Code string

const (
	// The document or request is malformed.
	ErrCodeInvalidInput        Code = "INVALID_INPUT"
	ErrCodeInvalidFormat       Code = "INVALID_FORMAT"
	ErrCodeInvalidRelationship Code = "INVALID_RELATIONSHIP"
	ErrCodeInvalidPath         Code = "INVALID_PATH"
	ErrCodeInvalidConfig       Code = "INVALID_CONFIG"

	// Something named does not exist.
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// The document parses but does not describe a drawable tree.
	ErrCodeMissingNode         Code = "MISSING_NODE"
	ErrCodeMissingRelationship Code = "MISSING_RELATIONSHIP"
	ErrCodeUnsupportedIndexing Code = "UNSUPPORTED_INDEXING"

	// Rendering.
	ErrCodeBackendUnavailable Code = "BACKEND_UNAVAILABLE"
	ErrCodeRender             Code = "RENDER_FAILED"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Class groups codes by who can fix the failure.
type Class int

const (
	ClassUnknown     Class = iota
	ClassInput             // malformed document, request or config
	ClassNotFound          // a file or resource is missing
	ClassSemantic          // well-formed input the builder cannot draw
	ClassUnavailable       // a rendering dependency is missing or down
	ClassInternal
)

// Class returns the class of c. Unknown and empty codes are [ClassUnknown].
func (c Code) Class() Class {
	switch c {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidRelationship,
		ErrCodeInvalidPath, ErrCodeInvalidConfig:
		return ClassInput
	case ErrCodeNotFound, ErrCodeFileNotFound:
		return ClassNotFound
	case ErrCodeMissingNode, ErrCodeMissingRelationship, ErrCodeUnsupportedIndexing:
		return ClassSemantic
	case ErrCodeBackendUnavailable:
		return ClassUnavailable
	case ErrCodeRender, ErrCodeInternal, ErrCodeUnsupported:
		return ClassInternal
	}
	return ClassUnknown
}

// Coder is implemented by errors that carry their own code.
type Coder interface {
	Code() Code
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error renders "CODE: message" followed by ": cause" when there is one.
func (e *Error) Error() string {
	s := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an *Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is [New] with a cause, which stays reachable through errors.Is and
// errors.As.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Is reports whether the first code found in err's chain is code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// GetCode returns the code of the outermost *Error in err's chain, falling
// back to the first [Coder]. It returns "" when the chain carries no code.
func GetCode(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c Coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}

// ClassOf returns the class of err's code.
func ClassOf(err error) Class { return GetCode(err).Class() }

// UserMessage strips the code prefix and cause from the outermost *Error.
// Errors without one are returned verbatim.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
