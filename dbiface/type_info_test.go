package dbiface_test

import (
	"testing"

	"github.com/heronpg/pgwire/dbiface"
	"github.com/stretchr/testify/assert"
)

func TestTypeInfo(t *testing.T) {
	null := dbiface.TypeInfo{}
	assert.True(t, null.IsNull())

	void := dbiface.TypeInfo{OID: 2278, Name: "void"}
	assert.True(t, void.IsVoid())
	assert.False(t, void.IsNull())

	int4 := dbiface.TypeInfo{OID: 23, Name: "int4"}
	assert.True(t, int4.Compatible(dbiface.TypeInfo{OID: 23, Name: "int4"}))
	assert.False(t, int4.Compatible(void))
}
