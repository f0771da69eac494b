// Package frontend implements the outbound (client-to-server) half of the
// PostgreSQL wire protocol: the startup message and the Extended Query
// message set (Parse, Bind, Execute, Sync), plus PasswordMessage, Query,
// Close and Terminate.
//
// Every message implements Encode, appending its wire representation onto
// dst and returning the grown slice, in the style of jackc/pgx/v5/pgproto3's
// FrontendMessage interface. Each message (other than StartupMessage, which
// carries no tag) builds its frame on an internal/frame.Writer obtained via
// frame.NewFrameBuilder, the same Start/Add*/Frame builder the teacher's
// pkg/buffer.Writer offered, just retrieving the finished bytes instead of
// flushing them to a socket directly.
package frontend

import (
	"encoding/binary"

	"github.com/heronpg/pgwire/internal/frame"
	"github.com/heronpg/pgwire/pgproto/types"
)

// Message is implemented by every frontend message.
type Message interface {
	Encode(dst []byte) []byte
}

// StartupMessage is the very first message sent on a new connection. It
// carries no tag byte, unlike every other message in the protocol, so it
// can't be built on frame.Writer (which always reserves a leading tag byte).
type StartupMessage struct {
	ProtocolVersion types.Version
	Parameters      map[string]string
}

func (m *StartupMessage) Encode(dst []byte) []byte {
	lengthPos := len(dst)
	dst = appendInt32(dst, 0) // placeholder, patched below
	dst = appendInt32(dst, int32(m.ProtocolVersion))

	for k, v := range m.Parameters {
		dst = append(dst, k...)
		dst = append(dst, 0)
		dst = append(dst, v...)
		dst = append(dst, 0)
	}
	dst = append(dst, 0)

	binary.BigEndian.PutUint32(dst[lengthPos:], uint32(len(dst)-lengthPos))
	return dst
}

// PasswordMessage responds to an authentication request with either the
// cleartext password or an MD5-hashed credential, depending on what the
// backend asked for.
type PasswordMessage struct {
	Password string
}

func (m *PasswordMessage) Encode(dst []byte) []byte {
	w := frame.NewFrameBuilder()
	w.Start('p')
	w.AddString(m.Password)
	w.AddNullTerminate()
	return append(dst, w.Frame()...)
}

// Query sends a statement via the Simple Query protocol.
type Query struct {
	SQL string
}

func (m *Query) Encode(dst []byte) []byte {
	w := frame.NewFrameBuilder()
	w.Start('Q')
	w.AddString(m.SQL)
	w.AddNullTerminate()
	return append(dst, w.Frame()...)
}

// Parse creates a prepared statement server-side. ParamOIDs may contain
// zero values to let the backend infer a parameter's type.
type Parse struct {
	Name      string
	SQL       string
	ParamOIDs []uint32
}

func (m *Parse) Encode(dst []byte) []byte {
	w := frame.NewFrameBuilder()
	w.Start('P')
	w.AddString(m.Name)
	w.AddNullTerminate()
	w.AddString(m.SQL)
	w.AddNullTerminate()

	w.AddInt16(int16(len(m.ParamOIDs)))
	for _, oid := range m.ParamOIDs {
		w.AddInt32(int32(oid))
	}

	return append(dst, w.Frame()...)
}

// Bind binds parameter values to a named (or unnamed) portal against a
// named (or unnamed) prepared statement. Parameters and results are always
// sent/requested in binary format, per this module's scope.
type Bind struct {
	PortalName    string
	StatementName string
	ParamFormats  []int16
	Params        [][]byte // nil element means SQL NULL
	ResultFormats []int16
}

func (m *Bind) Encode(dst []byte) []byte {
	w := frame.NewFrameBuilder()
	w.Start('B')
	w.AddString(m.PortalName)
	w.AddNullTerminate()
	w.AddString(m.StatementName)
	w.AddNullTerminate()

	w.AddInt16(int16(len(m.ParamFormats)))
	for _, f := range m.ParamFormats {
		w.AddInt16(f)
	}

	w.AddInt16(int16(len(m.Params)))
	for _, p := range m.Params {
		if p == nil {
			w.AddInt32(-1)
			continue
		}
		w.AddInt32(int32(len(p)))
		w.AddBytes(p)
	}

	w.AddInt16(int16(len(m.ResultFormats)))
	for _, f := range m.ResultFormats {
		w.AddInt16(f)
	}

	return append(dst, w.Frame()...)
}

// Describe asks the backend to return the parameter types (for a
// statement) or column shape (for a portal) of a previously Parsed
// statement or Bound portal, as a ParameterDescription and/or
// RowDescription/NoData.
type Describe struct {
	Target CloseTarget
	Name   string
}

func (m *Describe) Encode(dst []byte) []byte {
	w := frame.NewFrameBuilder()
	w.Start('D')
	w.AddByte(byte(m.Target))
	w.AddString(m.Name)
	w.AddNullTerminate()
	return append(dst, w.Frame()...)
}

// Execute asks the backend to run the named portal, returning at most
// MaxRows rows (0 meaning "no limit").
type Execute struct {
	PortalName string
	MaxRows    int32
}

func (m *Execute) Encode(dst []byte) []byte {
	w := frame.NewFrameBuilder()
	w.Start('E')
	w.AddString(m.PortalName)
	w.AddNullTerminate()
	w.AddInt32(m.MaxRows)
	return append(dst, w.Frame()...)
}

// Sync marks the end of an Extended Query message group, asking the
// backend to issue ReadyForQuery once it has processed everything before it.
type Sync struct{}

func (m *Sync) Encode(dst []byte) []byte {
	w := frame.NewFrameBuilder()
	w.Start('S')
	return append(dst, w.Frame()...)
}

// CloseTarget distinguishes a prepared statement from a portal in a Close
// message.
type CloseTarget byte

const (
	CloseStatement CloseTarget = 'S'
	ClosePortal    CloseTarget = 'P'
)

// Close releases a prepared statement or portal on the backend.
type Close struct {
	Target CloseTarget
	Name   string
}

func (m *Close) Encode(dst []byte) []byte {
	w := frame.NewFrameBuilder()
	w.Start('C')
	w.AddByte(byte(m.Target))
	w.AddString(m.Name)
	w.AddNullTerminate()
	return append(dst, w.Frame()...)
}

// Terminate politely closes the connection.
type Terminate struct{}

func (m *Terminate) Encode(dst []byte) []byte {
	w := frame.NewFrameBuilder()
	w.Start('X')
	return append(dst, w.Frame()...)
}

func appendInt32(dst []byte, n int32) []byte {
	return append(dst, byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
}
