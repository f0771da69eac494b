package pgconn

import (
	"errors"
	"fmt"

	"github.com/heronpg/pgwire/pgproto/pgerr"
)

// Kind distinguishes the broad categories of error this module can
// return, following the "kinds, not types" taxonomy: callers branch on
// Kind via errors.As against *Error, not on a tree of concrete error
// types.
type Kind int

const (
	// KindIO wraps a failure from the underlying socket (dial, read,
	// write, or a previous failure that marked the Conn broken).
	KindIO Kind = iota
	// KindProtocol wraps a well-formed-but-unexpected wire message, or a
	// message that failed to decode.
	KindProtocol
	// KindDatabase wraps an ErrorResponse the backend sent in response to
	// a request.
	KindDatabase
	// KindUnsupported wraps an authentication mechanism or feature this
	// module declines to implement (SASL/SCRAM, GSSAPI, Kerberos, SSPI).
	KindUnsupported
	// KindColumnIndexOutOfBounds wraps an out-of-range column access on a
	// Row.
	KindColumnIndexOutOfBounds
	// KindTimeout names a timeout. No function in this package returns
	// it: a socket deadline that expires surfaces as KindIO.
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindProtocol:
		return "protocol"
	case KindDatabase:
		return "database"
	case KindUnsupported:
		return "unsupported"
	case KindColumnIndexOutOfBounds:
		return "column index out of bounds"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Error is the concrete error type every public pgconn function returns,
// carrying a Kind callers can branch on plus the underlying cause.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("pgconn: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// wrap builds an *Error of the given Kind, or nil if err is nil. If err is
// already a pgconn *Error it is returned unchanged, so a lower layer's
// Kind is never clobbered by an outer wrap call.
func wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}

	var existing *Error
	if errors.As(err, &existing) {
		return existing
	}

	return &Error{Kind: kind, Err: err}
}

// IsKind reports whether err is a pgconn *Error of the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// ErrBroken is returned by Query and Describe once a prior Io or Protocol
// error has marked the Conn broken; they no longer touch the socket.
var ErrBroken = wrap(KindIO, errors.New("pgconn: connection is broken by a previous error"))

// ColumnCountError reports a Row.Scan call whose destination count
// doesn't match the row's column count.
type ColumnCountError struct {
	Want, Got int
}

func (e *ColumnCountError) Error() string {
	return fmt.Sprintf("pgconn: scan wants %d destinations, row has %d columns", e.Got, e.Want)
}

// ColumnIndexError reports an out-of-range Row.Index access.
type ColumnIndexError struct {
	Index, Len int
}

func (e *ColumnIndexError) Error() string {
	return fmt.Sprintf("pgconn: column index %d out of bounds for %d columns", e.Index, e.Len)
}

// databaseError decodes a raw ErrorResponse body into a pgerr.DatabaseError
// and wraps it as a KindDatabase *Error.
func databaseError(raw []byte) error {
	dbErr, err := pgerr.DecodeDatabaseError(raw)
	if err != nil {
		return wrap(KindProtocol, fmt.Errorf("pgconn: decode error response: %w", err))
	}

	return wrap(KindDatabase, dbErr)
}
