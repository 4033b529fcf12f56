package iiif

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies why a request could not be served.
type Kind int

// The error kinds, in pipeline order.
const (
	MalformedRequest Kind = iota
	InvalidRegion
	InvalidSize
	UpscaleNotAllowed
	InvalidRotation
	UnsupportedQuality
	UnsupportedFormat
	FormatCapabilityError
	SourceNotFound
	SourceUnreadable
	DecodeError
	EncodeError
)

var kindNames = [...]string{
	"MalformedRequest",
	"InvalidRegion",
	"InvalidSize",
	"UpscaleNotAllowed",
	"InvalidRotation",
	"UnsupportedQuality",
	"UnsupportedFormat",
	"FormatCapabilityError",
	"SourceNotFound",
	"SourceUnreadable",
	"DecodeError",
	"EncodeError",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Phase tells in which step of the pipeline an error happened.
type Phase int

// Parsing errors are raised before any source is touched, resolution errors
// once the source dimensions are known.
const (
	PhaseParse Phase = iota
	PhaseResolve
	PhaseSource
	PhaseCodec
)

func (p Phase) String() string {
	switch p {
	case PhaseParse:
		return "parse"
	case PhaseResolve:
		return "resolve"
	case PhaseSource:
		return "source"
	case PhaseCodec:
		return "codec"
	}
	return "unknown"
}

// Error is the only error type returned by this package.
type Error struct {
	Kind    Kind
	Phase   Phase
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s) %s: %v", e.Kind, e.Phase, e.Message, e.Err)
	}
	return fmt.Sprintf("%s (%s) %s", e.Kind, e.Phase, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, so that
// errors.Is(err, &iiif.Error{Kind: iiif.InvalidSize}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// StatusCode maps the error to the HTTP status a server would answer with.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case SourceNotFound:
		return http.StatusNotFound
	case FormatCapabilityError:
		return http.StatusNotImplemented
	case SourceUnreadable, DecodeError, EncodeError:
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

// KindOf returns the kind of err and whether err is an *Error at all.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func newError(kind Kind, phase Phase, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Phase:   phase,
		Message: fmt.Sprintf(format, args...),
	}
}

func wrapError(kind Kind, phase Phase, err error, format string, args ...interface{}) *Error {
	e := newError(kind, phase, format, args...)
	e.Err = err
	return e
}
