package types_test

import (
	"testing"

	"github.com/heronpg/pgwire/pgproto/types"
	"github.com/stretchr/testify/assert"
)

func TestFrontendTagString(t *testing.T) {
	assert.Equal(t, "Parse", types.FrontendParse.String())
	assert.Equal(t, "Unknown", types.FrontendTag(0x7F).String())
}

func TestBackendTagString(t *testing.T) {
	assert.Equal(t, "RowDescription", types.BackendRowDescription.String())
	assert.Equal(t, "Unknown", types.BackendTag(0x7F).String())
}

func TestVersionConstants(t *testing.T) {
	assert.Equal(t, types.Version(196608), types.Version30)
	assert.NotEqual(t, types.Version30, types.VersionSSLRequest)
}
