// Package dbiface is the generic database-facing surface this module
// carries on top of pgconn: Database, Acquire, Pool, Transaction,
// Statement, TypeInfo and FromRow. The shape is grounded on the
// original implementation's own trait family of the same names (see
// acquire.rs/statement.rs/type_info.rs) — there expressed as a
// per-driver associated-type family, here collapsed to this module's
// single dialect.
//
// None of these are where the hard protocol work happens; that's
// pgconn.Conn. This package exists so callers get a pooled, typed way
// to use it instead of reaching for a bare Conn everywhere.
package dbiface

// Database names the SQL dialect a Pool, Transaction or Statement is
// bound to.
type Database interface {
	Name() string
}

// Postgres is the only Database this module implements.
type Postgres struct{}

func (Postgres) Name() string { return "postgres" }
