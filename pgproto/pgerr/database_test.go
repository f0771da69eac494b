package pgerr_test

import (
	"testing"

	"github.com/heronpg/pgwire/pgproto/pgerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDatabaseError(t *testing.T) {
	body := []byte("SERROR\x00VERROR\x00C42601\x00Msyntax error\x00Hhint text\x00\x00")

	dbErr, err := pgerr.DecodeDatabaseError(body)
	require.NoError(t, err)
	assert.Equal(t, "ERROR", dbErr.SeverityLocalized)
	assert.Equal(t, pgerr.Severity("ERROR"), dbErr.Severity)
	assert.Equal(t, pgerr.Syntax, dbErr.Code)
	assert.Equal(t, "syntax error", dbErr.Message)
	assert.Equal(t, "hint text", dbErr.Hint)
	assert.Contains(t, dbErr.Error(), "HINT: hint text")
}

func TestDecodeDatabaseErrorMissingTerminator(t *testing.T) {
	_, err := pgerr.DecodeDatabaseError([]byte("SERROR"))
	require.Error(t, err)
}

func TestDecodeDatabaseErrorInvalidUTF8(t *testing.T) {
	body := append([]byte("M"), 0xff, 0xfe, 0, 0)
	_, err := pgerr.DecodeDatabaseError(body)
	require.Error(t, err)
}

func TestDecodeDatabaseErrorUnrecognizedTagSkipped(t *testing.T) {
	body := []byte("Zunknown-field\x00Mmessage\x00\x00")
	dbErr, err := pgerr.DecodeDatabaseError(body)
	require.NoError(t, err)
	assert.Equal(t, "message", dbErr.Message)
}

func TestWithCodeAndGetCode(t *testing.T) {
	base := assert.AnError
	wrapped := pgerr.WithCode(base, pgerr.UniqueViolation)
	assert.Equal(t, pgerr.UniqueViolation, pgerr.GetCode(wrapped))
	assert.Equal(t, pgerr.Uncategorized, pgerr.GetCode(base))
	assert.Nil(t, pgerr.WithCode(nil, pgerr.UniqueViolation))
}
