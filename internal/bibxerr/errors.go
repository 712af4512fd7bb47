// Package bibxerr defines the error taxonomy shared by every parser, the
// consolidator, the OpenAlex builder, and the SAP classifier.
package bibxerr

import "fmt"

// Kind identifies which part of the error taxonomy an Error belongs to.
type Kind int

const (
	// MalformedLine: a line in a structured record does not match the
	// expected grammar. Fatal for the record; fatal for the whole file
	// only in the auto-detect discriminator.
	MalformedLine Kind = iota
	// MalformedReference: a single reference string inside a record is
	// unparseable. The reference is dropped, the record is kept.
	MalformedReference
	// MissingCriticalInformation: a record lacks authors or year after
	// parsing. The record is dropped.
	MissingCriticalInformation
	// InvalidFormat: a file does not plausibly match a parser's format.
	// The auto-detect reader falls through to the next parser.
	InvalidFormat
	// RemoteError: an HTTP failure, schema-validation failure, or
	// exhausted retries against the OpenAlex endpoint.
	RemoteError
	// SAPPrecondition: a SAP pass was invoked on a graph lacking the
	// attribute it requires.
	SAPPrecondition
)

func (k Kind) String() string {
	switch k {
	case MalformedLine:
		return "malformed-line"
	case MalformedReference:
		return "malformed-reference"
	case MissingCriticalInformation:
		return "missing-critical-information"
	case InvalidFormat:
		return "invalid-format"
	case RemoteError:
		return "remote-error"
	case SAPPrecondition:
		return "sap-precondition"
	default:
		return "unknown"
	}
}

// Error is the concrete error type carried through the taxonomy. Kind lets
// callers dispatch with errors.Is against the package-level sentinels
// below regardless of the wrapped message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a sentinel for the same Kind, so that
// errors.Is(err, bibxerr.ErrInvalidFormat) works without comparing messages.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New constructs an Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs an Error of the given kind wrapping an underlying cause.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// Sentinel errors usable with errors.Is for each Kind.
var (
	ErrMalformedLine               = &Error{Kind: MalformedLine}
	ErrMalformedReference          = &Error{Kind: MalformedReference}
	ErrMissingCriticalInformation  = &Error{Kind: MissingCriticalInformation}
	ErrInvalidFormat               = &Error{Kind: InvalidFormat}
	ErrRemoteError                 = &Error{Kind: RemoteError}
	ErrSAPPrecondition             = &Error{Kind: SAPPrecondition}
)
