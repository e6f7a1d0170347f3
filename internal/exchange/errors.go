// =============================================================================
// Transaction Widget - Exchange Client Errors
// =============================================================================

package exchange

import (
	"errors"
	"fmt"
)

// Error kinds returned by the conversion client. Every error produced by
// Client.Convert is a *ConversionError whose Kind is one of these.
var (
	ErrConfiguration     = errors.New("credential missing")
	ErrNetwork           = errors.New("network error")
	ErrMalformedResponse = errors.New("malformed response")
	ErrConversionFailed  = errors.New("conversion failed")
)

// ConversionError describes a failed call to the exchange service.
type ConversionError struct {
	// Kind is the sentinel error kind.
	Kind error

	// From and To are the currency pair being converted.
	From string
	To   string

	// Message is the detail reported by the service or the client.
	// For ErrConversionFailed it is the service's error.info verbatim.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error renders "<kind> (<FROM>-><TO>): <message>: <cause>", leaving out
// the parts that are empty.
func (e *ConversionError) Error() string {
	msg := e.Kind.Error()
	if e.From != "" || e.To != "" {
		msg = fmt.Sprintf("%s (%s->%s)", msg, e.From, e.To)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports whether target is the kind of this error.
func (e *ConversionError) Is(target error) bool {
	return e.Kind == target
}

// Unwrap returns the underlying cause.
func (e *ConversionError) Unwrap() error {
	return e.Err
}

func newError(kind error, from, to, message string, cause error) *ConversionError {
	return &ConversionError{Kind: kind, From: from, To: to, Message: message, Err: cause}
}
