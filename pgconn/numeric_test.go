package pgconn

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericRoundTrip(t *testing.T) {
	cases := []string{
		"0",
		"1",
		"-1",
		"42",
		"123.456",
		"-123.456",
		"0.0001",
		"10000",
		"99999999.99990000",
	}

	for _, c := range cases {
		c := c
		t.Run(c, func(t *testing.T) {
			d, err := decimal.NewFromString(c)
			require.NoError(t, err)

			buf, err := encodeNumeric(d)
			require.NoError(t, err)

			got, err := decodeNumeric(buf)
			require.NoError(t, err)

			assert.True(t, d.Equal(got), "want %s, got %s", d, got)
		})
	}
}

func TestTypeRegistryEncodesDecimalAsNumeric(t *testing.T) {
	registry := NewTypeRegistry()

	d := decimal.RequireFromString("3.14")
	enc, err := registry.Encode(1700, d)
	require.NoError(t, err)
	assert.Equal(t, uint32(1700), enc.OID)
	assert.NotEmpty(t, enc.Value)

	var got decimal.Decimal
	require.NoError(t, registry.Scan(1700, enc.Value, &got))
	assert.True(t, d.Equal(got))
}
