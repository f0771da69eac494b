package dbiface

import "fmt"

// TypeInfo describes a SQL type the driver reported for a column or
// parameter, the Go rendition of the original's TypeInfo trait
// (is_null/name/type_compatible/is_void), trimmed to the one fixed OID
// representation this module deals in.
type TypeInfo struct {
	OID  uint32
	Name string
}

// IsNull reports whether this TypeInfo describes Postgres's untyped
// NULL (OID 0), the only type lacking a concrete OID.
func (t TypeInfo) IsNull() bool { return t.OID == 0 }

// IsVoid reports whether this TypeInfo is the void pseudo-type, which
// carries no column value (OID 2278).
func (t TypeInfo) IsVoid() bool { return t.OID == voidOID }

// Compatible reports whether t and other represent mutually compatible
// types. Defaults to OID equality, since this module doesn't carry a
// cast-compatibility matrix.
func (t TypeInfo) Compatible(other TypeInfo) bool { return t.OID == other.OID }

func (t TypeInfo) String() string { return fmt.Sprintf("%s(oid=%d)", t.Name, t.OID) }

const voidOID = 2278
