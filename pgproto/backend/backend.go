// Package backend implements the inbound (server-to-client) half of the
// PostgreSQL wire protocol: authentication requests, the startup
// parameter/key exchange, and the Extended Query response messages.
//
// Every message implements Decode, parsing its body in place: byte-slice
// fields alias the body rather than copying it (string fields are copies),
// so callers must treat the body as borrowed until the next read. Dispatch on
// the wire tag lives in Decode, mirroring the tag-switch style of
// jackc/pgx/v5/pgproto3's Frontend.Receive.
package backend

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"github.com/heronpg/pgwire/pgproto/types"
)

// Message is implemented by every backend message.
type Message interface {
	Decode(body []byte) error
}

// Decode dispatches on tag and decodes body into a freshly constructed
// Message of the matching type.
func Decode(tag byte, body []byte) (Message, error) {
	var msg Message

	switch types.BackendTag(tag) {
	case types.BackendAuth:
		msg = &Authentication{}
	case types.BackendBackendKeyData:
		msg = &BackendKeyData{}
	case types.BackendParameterStatus:
		msg = &ParameterStatus{}
	case types.BackendReadyForQuery:
		msg = &ReadyForQuery{}
	case types.BackendRowDescription:
		msg = &RowDescription{}
	case types.BackendDataRow:
		msg = &DataRow{}
	case types.BackendCommandComplete:
		msg = &CommandComplete{}
	case types.BackendParseComplete:
		msg = &ParseComplete{}
	case types.BackendBindComplete:
		msg = &BindComplete{}
	case types.BackendCloseComplete:
		msg = &CloseComplete{}
	case types.BackendNoticeResponse:
		msg = &NoticeResponse{}
	case types.BackendErrorResponse:
		msg = &ErrorResponse{}
	case types.BackendEmptyQuery:
		msg = &EmptyQueryResponse{}
	case types.BackendNoData:
		msg = &NoData{}
	case types.BackendParameterDescription:
		msg = &ParameterDescription{}
	default:
		return nil, fmt.Errorf("pgproto/backend: unknown message tag %q", string(tag))
	}

	if err := msg.Decode(body); err != nil {
		return nil, err
	}

	return msg, nil
}

// Authentication* constants mirror the auth type codes carried in the
// first 4 bytes of an AuthenticationXXX body.
const (
	AuthTypeOK                = 0
	AuthTypeKerberosV5        = 2
	AuthTypeCleartextPassword = 3
	AuthTypeMD5Password       = 5
	AuthTypeSCMCredential     = 6
	AuthTypeGSS               = 7
	AuthTypeGSSContinue       = 8
	AuthTypeSSPI              = 9
	AuthTypeSASL              = 10
	AuthTypeSASLContinue      = 11
	AuthTypeSASLFinal         = 12
)

// Authentication carries the backend's authentication request. Type
// distinguishes which fields are meaningful: MD5Salt for
// AuthTypeMD5Password, SASLMechanisms/SASLData otherwise.
type Authentication struct {
	Type           uint32
	MD5Salt        [4]byte
	SASLMechanisms []string
	SASLData       []byte
}

func (m *Authentication) Decode(body []byte) error {
	if len(body) < 4 {
		return fmt.Errorf("pgproto/backend: authentication message too short")
	}

	m.Type = binary.BigEndian.Uint32(body[:4])
	rest := body[4:]

	switch m.Type {
	case AuthTypeMD5Password:
		if len(rest) < 4 {
			return fmt.Errorf("pgproto/backend: AuthenticationMD5Password missing salt")
		}
		copy(m.MD5Salt[:], rest[:4])
	case AuthTypeSASL:
		for len(rest) > 0 && rest[0] != 0 {
			end := indexNul(rest)
			if end == -1 {
				break
			}
			m.SASLMechanisms = append(m.SASLMechanisms, string(rest[:end]))
			rest = rest[end+1:]
		}
	case AuthTypeSASLContinue, AuthTypeSASLFinal, AuthTypeGSSContinue:
		m.SASLData = rest
	}

	return nil
}

// BackendKeyData carries the process ID and secret key used to issue a
// CancelRequest against this connection.
type BackendKeyData struct {
	ProcessID uint32
	SecretKey uint32
}

func (m *BackendKeyData) Decode(body []byte) error {
	if len(body) != 8 {
		return fmt.Errorf("pgproto/backend: invalid BackendKeyData length %d", len(body))
	}

	m.ProcessID = binary.BigEndian.Uint32(body[:4])
	m.SecretKey = binary.BigEndian.Uint32(body[4:8])
	return nil
}

// ParameterStatus reports a single runtime server parameter and its
// current value (e.g. "server_version", "client_encoding").
type ParameterStatus struct {
	Name  string
	Value string
}

func (m *ParameterStatus) Decode(body []byte) error {
	end := indexNul(body)
	if end == -1 {
		return fmt.Errorf("pgproto/backend: ParameterStatus missing name terminator")
	}
	m.Name = string(body[:end])
	if err := validateUTF8("ParameterStatus.Name", m.Name); err != nil {
		return err
	}

	rest := body[end+1:]
	end = indexNul(rest)
	if end == -1 {
		return fmt.Errorf("pgproto/backend: ParameterStatus missing value terminator")
	}
	m.Value = string(rest[:end])
	if err := validateUTF8("ParameterStatus.Value", m.Value); err != nil {
		return err
	}
	return nil
}

// ReadyForQuery signals the backend is idle and ready for a new query
// cycle. TxStatus is one of 'I' (idle), 'T' (in transaction), 'E' (failed
// transaction).
type ReadyForQuery struct {
	TxStatus byte
}

func (m *ReadyForQuery) Decode(body []byte) error {
	if len(body) != 1 {
		return fmt.Errorf("pgproto/backend: invalid ReadyForQuery length %d", len(body))
	}
	m.TxStatus = body[0]
	return nil
}

// FieldDescription describes a single result column, as carried by
// RowDescription.
type FieldDescription struct {
	Name         string
	TableOID     uint32
	TableAttNum  uint16
	TypeOID      uint32
	TypeSize     int16
	TypeModifier int32
	Format       int16
}

// RowDescription lists the columns of the rows to follow.
type RowDescription struct {
	Fields []FieldDescription
}

func (m *RowDescription) Decode(body []byte) error {
	if len(body) < 2 {
		return fmt.Errorf("pgproto/backend: RowDescription too short")
	}

	count := int(binary.BigEndian.Uint16(body[:2]))
	body = body[2:]
	m.Fields = make([]FieldDescription, 0, count)

	for i := 0; i < count; i++ {
		end := indexNul(body)
		if end == -1 {
			return fmt.Errorf("pgproto/backend: RowDescription field %d missing name terminator", i)
		}

		name := string(body[:end])
		if err := validateUTF8("RowDescription.Fields[].Name", name); err != nil {
			return err
		}
		f := FieldDescription{Name: name}
		body = body[end+1:]

		if len(body) < 18 {
			return fmt.Errorf("pgproto/backend: RowDescription field %d truncated", i)
		}

		f.TableOID = binary.BigEndian.Uint32(body[0:4])
		f.TableAttNum = binary.BigEndian.Uint16(body[4:6])
		f.TypeOID = binary.BigEndian.Uint32(body[6:10])
		f.TypeSize = int16(binary.BigEndian.Uint16(body[10:12]))
		f.TypeModifier = int32(binary.BigEndian.Uint32(body[12:16]))
		f.Format = int16(binary.BigEndian.Uint16(body[16:18]))
		body = body[18:]

		m.Fields = append(m.Fields, f)
	}

	return nil
}

// DataRow carries one row of column values. A nil element means SQL NULL.
// The byte slices alias the message body and must be copied before the
// next read if retained.
type DataRow struct {
	Values [][]byte
}

func (m *DataRow) Decode(body []byte) error {
	if len(body) < 2 {
		return fmt.Errorf("pgproto/backend: DataRow too short")
	}

	count := int(binary.BigEndian.Uint16(body[:2]))
	body = body[2:]
	m.Values = make([][]byte, count)

	for i := 0; i < count; i++ {
		if len(body) < 4 {
			return fmt.Errorf("pgproto/backend: DataRow column %d truncated", i)
		}

		length := int32(binary.BigEndian.Uint32(body[:4]))
		body = body[4:]

		if length == -1 {
			m.Values[i] = nil
			continue
		}

		if int32(len(body)) < length {
			return fmt.Errorf("pgproto/backend: DataRow column %d truncated", i)
		}

		m.Values[i] = body[:length]
		body = body[length:]
	}

	return nil
}

// CommandComplete reports the completed command tag (e.g. "SELECT 3").
type CommandComplete struct {
	Tag string
}

func (m *CommandComplete) Decode(body []byte) error {
	end := indexNul(body)
	if end == -1 {
		m.Tag = string(body)
	} else {
		m.Tag = string(body[:end])
	}
	return validateUTF8("CommandComplete.Tag", m.Tag)
}

// ParseComplete acknowledges a successful Parse.
type ParseComplete struct{}

func (m *ParseComplete) Decode(body []byte) error { return nil }

// BindComplete acknowledges a successful Bind.
type BindComplete struct{}

func (m *BindComplete) Decode(body []byte) error { return nil }

// CloseComplete acknowledges a successful Close.
type CloseComplete struct{}

func (m *CloseComplete) Decode(body []byte) error { return nil }

// EmptyQueryResponse is returned instead of CommandComplete when an empty
// query string was executed.
type EmptyQueryResponse struct{}

func (m *EmptyQueryResponse) Decode(body []byte) error { return nil }

// NoData indicates a Describe found no result columns.
type NoData struct{}

func (m *NoData) Decode(body []byte) error { return nil }

// ParameterDescription lists the inferred OID of each parameter in a
// prepared statement, as returned by Describe(Statement).
type ParameterDescription struct {
	ParamOIDs []uint32
}

func (m *ParameterDescription) Decode(body []byte) error {
	if len(body) < 2 {
		return fmt.Errorf("pgproto/backend: ParameterDescription too short")
	}

	count := int(binary.BigEndian.Uint16(body[:2]))
	body = body[2:]
	m.ParamOIDs = make([]uint32, count)

	for i := 0; i < count; i++ {
		if len(body) < 4 {
			return fmt.Errorf("pgproto/backend: ParameterDescription truncated")
		}
		m.ParamOIDs[i] = binary.BigEndian.Uint32(body[:4])
		body = body[4:]
	}

	return nil
}

// NoticeResponse and ErrorResponse share the same field-tagged body shape;
// their decode is delegated to pgproto/pgerr.DecodeDatabaseError.
type NoticeResponse struct {
	Raw []byte
}

func (m *NoticeResponse) Decode(body []byte) error {
	m.Raw = body
	return nil
}

// ErrorResponse carries a field-tagged error body. Its Raw bytes are
// decoded into a pgerr.DatabaseError by the connection layer, which owns
// the mapping from wire errors to the module's error taxonomy.
type ErrorResponse struct {
	Raw []byte
}

func (m *ErrorResponse) Decode(body []byte) error {
	m.Raw = body
	return nil
}

// validateUTF8 rejects a decoded string field that isn't well-formed UTF-8,
// per the protocol's requirement that all strings are UTF-8 regardless of
// the server's client_encoding.
func validateUTF8(field, s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("pgproto/backend: %s is not valid UTF-8", field)
	}
	return nil
}

func indexNul(b []byte) int {
	for i, c := range b {
		if c == 0 {
			return i
		}
	}
	return -1
}
