package pgconn

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Encoded is a single binary-encoded query parameter: an OID identifying
// its Postgres type and its binary payload. A nil Value encodes SQL NULL.
type Encoded struct {
	OID   uint32
	Value []byte
}

// TypeRegistry resolves a Postgres type OID to a binary codec for the
// corresponding Go value, so callers encoding parameters or scanning
// columns rarely need to hand-roll a wire encoding themselves.
//
// It wraps a jackc/pgx/v5/pgtype.Map for every OID pgtype already knows
// (int2/int4/int8, float4/float8, text/varchar, bool, bytea, timestamp[tz],
// uuid, json/jsonb, ...) and special-cases NUMERIC to decode into
// shopspring/decimal.Decimal instead of pgtype's own Numeric type, since
// decimal.Decimal is the friendlier type for arithmetic on the result.
type TypeRegistry struct {
	types *pgtype.Map
}

// NewTypeRegistry constructs a TypeRegistry with pgtype's built-in OID
// table.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{types: pgtype.NewMap()}
}

// Encode renders value as the binary wire format for oid. A nil value
// encodes SQL NULL regardless of oid.
func (r *TypeRegistry) Encode(oid uint32, value any) (Encoded, error) {
	if value == nil {
		return Encoded{OID: oid}, nil
	}

	if d, ok := value.(decimal.Decimal); ok {
		buf, err := encodeNumeric(d)
		if err != nil {
			return Encoded{}, fmt.Errorf("pgconn: encode numeric: %w", err)
		}
		return Encoded{OID: oid, Value: buf}, nil
	}

	buf, err := r.types.Encode(oid, pgtype.BinaryFormatCode, value, nil)
	if err != nil {
		return Encoded{}, fmt.Errorf("pgconn: encode oid %d: %w", oid, err)
	}

	return Encoded{OID: oid, Value: buf}, nil
}

// Scan decodes src (the binary wire format for oid) into dst, which must
// be a pointer to a Go type the registered codec understands, or a
// *decimal.Decimal for NUMERIC. A nil src is the caller's responsibility
// to have already treated as SQL NULL; Scan leaves dst untouched for it.
func (r *TypeRegistry) Scan(oid uint32, src []byte, dst any) error {
	if src == nil {
		return nil
	}

	if d, ok := dst.(*decimal.Decimal); ok {
		v, err := decodeNumeric(src)
		if err != nil {
			return fmt.Errorf("pgconn: scan numeric: %w", err)
		}
		*d = v
		return nil
	}

	if err := r.types.Scan(oid, pgtype.BinaryFormatCode, src, dst); err != nil {
		return fmt.Errorf("pgconn: scan oid %d: %w", oid, err)
	}

	return nil
}
