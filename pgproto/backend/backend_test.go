package backend_test

import (
	"encoding/binary"
	"testing"

	"github.com/heronpg/pgwire/pgproto/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAuthenticationOK(t *testing.T) {
	msg, err := backend.Decode('R', make([]byte, 4))
	require.NoError(t, err)

	auth, ok := msg.(*backend.Authentication)
	require.True(t, ok)
	assert.Equal(t, uint32(backend.AuthTypeOK), auth.Type)
}

func TestDecodeAuthenticationMD5(t *testing.T) {
	body := make([]byte, 8)
	binary.BigEndian.PutUint32(body[:4], backend.AuthTypeMD5Password)
	copy(body[4:], []byte{1, 2, 3, 4})

	msg, err := backend.Decode('R', body)
	require.NoError(t, err)

	auth := msg.(*backend.Authentication)
	assert.Equal(t, uint32(backend.AuthTypeMD5Password), auth.Type)
	assert.Equal(t, [4]byte{1, 2, 3, 4}, auth.MD5Salt)
}

func TestDecodeAuthenticationSASL(t *testing.T) {
	body := make([]byte, 4)
	binary.BigEndian.PutUint32(body, backend.AuthTypeSASL)
	body = append(body, []byte("SCRAM-SHA-256\x00SCRAM-SHA-256-PLUS\x00\x00")...)

	msg, err := backend.Decode('R', body)
	require.NoError(t, err)

	auth := msg.(*backend.Authentication)
	assert.Equal(t, []string{"SCRAM-SHA-256", "SCRAM-SHA-256-PLUS"}, auth.SASLMechanisms)
}

func TestDecodeAuthenticationTooShort(t *testing.T) {
	_, err := backend.Decode('R', []byte{0, 0})
	require.Error(t, err)
}

func TestDecodeBackendKeyData(t *testing.T) {
	body := make([]byte, 8)
	binary.BigEndian.PutUint32(body[:4], 42)
	binary.BigEndian.PutUint32(body[4:], 99)

	msg, err := backend.Decode('K', body)
	require.NoError(t, err)

	key := msg.(*backend.BackendKeyData)
	assert.Equal(t, uint32(42), key.ProcessID)
	assert.Equal(t, uint32(99), key.SecretKey)
}

func TestDecodeBackendKeyDataWrongLength(t *testing.T) {
	_, err := backend.Decode('K', []byte{1, 2, 3})
	require.Error(t, err)
}

func TestDecodeParameterStatus(t *testing.T) {
	body := append([]byte("server_version\x0015.3\x00"))

	msg, err := backend.Decode('S', body)
	require.NoError(t, err)

	ps := msg.(*backend.ParameterStatus)
	assert.Equal(t, "server_version", ps.Name)
	assert.Equal(t, "15.3", ps.Value)
}

func TestDecodeParameterStatusMissingTerminator(t *testing.T) {
	_, err := backend.Decode('S', []byte("server_version"))
	require.Error(t, err)
}

func TestDecodeReadyForQuery(t *testing.T) {
	msg, err := backend.Decode('Z', []byte{'I'})
	require.NoError(t, err)
	assert.Equal(t, byte('I'), msg.(*backend.ReadyForQuery).TxStatus)

	_, err = backend.Decode('Z', []byte{'I', 'I'})
	require.Error(t, err)
}

func TestDecodeRowDescription(t *testing.T) {
	body := make([]byte, 0, 64)
	body = binary.BigEndian.AppendUint16(body, 2)

	body = append(body, "id"...)
	body = append(body, 0)
	body = binary.BigEndian.AppendUint32(body, 16384) // table OID
	body = binary.BigEndian.AppendUint16(body, 1)      // attnum
	body = binary.BigEndian.AppendUint32(body, 23)     // int4
	body = binary.BigEndian.AppendUint16(body, 4)
	body = binary.BigEndian.AppendUint32(body, 0xFFFFFFFF)
	body = binary.BigEndian.AppendUint16(body, 1)

	body = append(body, "name"...)
	body = append(body, 0)
	body = binary.BigEndian.AppendUint32(body, 16384)
	body = binary.BigEndian.AppendUint16(body, 2)
	body = binary.BigEndian.AppendUint32(body, 25) // text
	body = binary.BigEndian.AppendUint16(body, 0xFFFF)
	body = binary.BigEndian.AppendUint32(body, 0xFFFFFFFF)
	body = binary.BigEndian.AppendUint16(body, 1)

	msg, err := backend.Decode('T', body)
	require.NoError(t, err)

	rd := msg.(*backend.RowDescription)
	require.Len(t, rd.Fields, 2)
	assert.Equal(t, "id", rd.Fields[0].Name)
	assert.Equal(t, uint32(16384), rd.Fields[0].TableOID)
	assert.Equal(t, uint16(1), rd.Fields[0].TableAttNum)
	assert.Equal(t, uint32(23), rd.Fields[0].TypeOID)
	assert.Equal(t, int16(1), rd.Fields[0].Format)
	assert.Equal(t, "name", rd.Fields[1].Name)
	assert.Equal(t, uint32(25), rd.Fields[1].TypeOID)
}

func TestDecodeRowDescriptionTruncatedField(t *testing.T) {
	body := make([]byte, 0, 16)
	body = binary.BigEndian.AppendUint16(body, 1)
	body = append(body, "id"...)
	body = append(body, 0)
	body = append(body, 1, 2, 3) // far short of the 18 trailing bytes

	_, err := backend.Decode('T', body)
	require.Error(t, err)
}

func TestDecodeDataRowWithNulls(t *testing.T) {
	body := make([]byte, 0, 32)
	body = binary.BigEndian.AppendUint16(body, 3)

	body = binary.BigEndian.AppendUint32(body, 4)
	body = binary.BigEndian.AppendUint32(body, 42)

	body = binary.BigEndian.AppendUint32(body, uint32(int32(-1))) // NULL

	body = binary.BigEndian.AppendUint32(body, 1)
	body = append(body, 'x')

	msg, err := backend.Decode('D', body)
	require.NoError(t, err)

	dr := msg.(*backend.DataRow)
	require.Len(t, dr.Values, 3)
	assert.Equal(t, []byte{0, 0, 0, 42}, dr.Values[0])
	assert.Nil(t, dr.Values[1])
	assert.Equal(t, []byte("x"), dr.Values[2])
}

func TestDecodeDataRowTruncated(t *testing.T) {
	body := make([]byte, 0, 8)
	body = binary.BigEndian.AppendUint16(body, 1)
	body = binary.BigEndian.AppendUint32(body, 10) // claims 10 bytes, has none

	_, err := backend.Decode('D', body)
	require.Error(t, err)
}

func TestDecodeCommandComplete(t *testing.T) {
	msg, err := backend.Decode('C', append([]byte("SELECT 3"), 0))
	require.NoError(t, err)
	assert.Equal(t, "SELECT 3", msg.(*backend.CommandComplete).Tag)
}

func TestDecodeEmptyBodyMessages(t *testing.T) {
	for _, tag := range []byte{'1', '2', '3', 'I', 'n'} {
		msg, err := backend.Decode(tag, nil)
		require.NoError(t, err, "tag %q", tag)
		require.NotNil(t, msg)
	}
}

func TestDecodeParameterDescription(t *testing.T) {
	body := make([]byte, 0, 16)
	body = binary.BigEndian.AppendUint16(body, 2)
	body = binary.BigEndian.AppendUint32(body, 23)
	body = binary.BigEndian.AppendUint32(body, 25)

	msg, err := backend.Decode('t', body)
	require.NoError(t, err)
	assert.Equal(t, []uint32{23, 25}, msg.(*backend.ParameterDescription).ParamOIDs)
}

func TestDecodeNoticeAndErrorResponseCarryRawBody(t *testing.T) {
	body := []byte("SERRORVERRORC42601Msyntax error\x00")

	msg, err := backend.Decode('N', body)
	require.NoError(t, err)
	assert.Equal(t, body, msg.(*backend.NoticeResponse).Raw)

	msg, err = backend.Decode('E', body)
	require.NoError(t, err)
	assert.Equal(t, body, msg.(*backend.ErrorResponse).Raw)
}

func TestDecodeParameterStatusInvalidUTF8(t *testing.T) {
	body := append([]byte("server_version\x00"), 0xff, 0xfe, 0)
	_, err := backend.Decode('S', body)
	require.Error(t, err)
}

func TestDecodeRowDescriptionInvalidUTF8(t *testing.T) {
	body := make([]byte, 0, 32)
	body = binary.BigEndian.AppendUint16(body, 1)
	body = append(body, 0xff, 0xfe, 0) // invalid UTF-8 column name
	body = append(body, make([]byte, 18)...)

	_, err := backend.Decode('T', body)
	require.Error(t, err)
}

func TestDecodeCommandCompleteInvalidUTF8(t *testing.T) {
	_, err := backend.Decode('C', []byte{0xff, 0xfe, 0})
	require.Error(t, err)
}

// TestDecodeUnknownTag covers spec.md's end-to-end scenario 6: an
// unrecognized tag must surface a decode error rather than panic or
// silently succeed, so the caller can mark the connection broken.
func TestDecodeUnknownTag(t *testing.T) {
	_, err := backend.Decode(0x7F, []byte{1, 2, 3})
	require.Error(t, err)
}
