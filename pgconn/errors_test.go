package pgconn

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapPreservesExistingKind(t *testing.T) {
	inner := wrap(KindProtocol, errors.New("boom"))
	outer := wrap(KindIO, inner)

	assert.True(t, IsKind(outer, KindProtocol))
	assert.False(t, IsKind(outer, KindIO))
}

func TestWrapNilIsNil(t *testing.T) {
	assert.NoError(t, wrap(KindIO, nil))
}

func TestIsKindFalseForPlainError(t *testing.T) {
	assert.False(t, IsKind(errors.New("plain"), KindIO))
}

func TestErrBrokenIsKindIO(t *testing.T) {
	assert.True(t, IsKind(ErrBroken, KindIO))
}
