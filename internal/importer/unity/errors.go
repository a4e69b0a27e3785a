package unity

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an extraction failure.
type Kind string

// Kind values.
const (
	// KindStructural: an expected directory or file is missing.
	KindStructural Kind = "structural"
	// KindFormat: YAML does not parse to the expected mapping shape.
	KindFormat Kind = "format"
	// KindFieldValidation: a named field has the wrong type or an out-of-domain value.
	KindFieldValidation Kind = "field validation"
	// KindReferenceResolution: a GUID cross-reference matched zero or several files.
	KindReferenceResolution Kind = "reference resolution"
	// KindDecode: a packed-integer string is malformed or the wrong length.
	KindDecode Kind = "decode"
)

// Sentinels for errors.Is; an *Error matches the sentinel of its Kind.
var (
	ErrStructural          = &Error{Kind: KindStructural}
	ErrFormat              = &Error{Kind: KindFormat}
	ErrFieldValidation     = &Error{Kind: KindFieldValidation}
	ErrReferenceResolution = &Error{Kind: KindReferenceResolution}
	ErrDecode              = &Error{Kind: KindDecode}
)

// Error is an extraction failure attributed to a file and, where one applies,
// a field of that file.
type Error struct {
	Kind    Kind
	Path    string
	Field   string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	b.WriteString(" error")
	if e.Path != "" {
		fmt.Fprintf(&b, " in %q", e.Path)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " field %q", e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

func structuralErr(path, format string, args ...any) *Error {
	return &Error{Kind: KindStructural, Path: path, Message: fmt.Sprintf(format, args...)}
}

func formatErr(path, field, format string, args ...any) *Error {
	return &Error{Kind: KindFormat, Path: path, Field: field, Message: fmt.Sprintf(format, args...)}
}

func fieldErr(path, field, format string, args ...any) *Error {
	return &Error{Kind: KindFieldValidation, Path: path, Field: field, Message: fmt.Sprintf(format, args...)}
}

func referenceErr(path, field, format string, args ...any) *Error {
	return &Error{Kind: KindReferenceResolution, Path: path, Field: field, Message: fmt.Sprintf(format, args...)}
}

// withLocation fills in Path and Field on an *Error that lacks them, so that
// leaf helpers can report failures without knowing which file they serve.
func withLocation(err error, path, field string) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	if e.Path == "" {
		e.Path = path
	}
	if e.Field == "" {
		e.Field = field
	}
	return err
}
