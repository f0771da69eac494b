package dbiface

import (
	"context"
	"fmt"

	"github.com/heronpg/pgwire/pgconn"
)

// Statement is an owned, described prepared statement: its SQL text,
// the parameter OIDs the backend inferred, and its result columns. This
// is the Go rendition of the original's Statement trait
// (sql/parameters/columns/column/try_column/query...), collapsed from a
// trait-plus-owned/borrowed-variant pair into a single struct since this
// module has exactly one Database.
type Statement struct {
	SQL       string
	ParamOIDs []uint32
	Columns   []pgconn.Column
}

// Prepare describes sql against conn without binding or executing it,
// returning a reusable Statement. Repeated calls with the same sql hit
// conn's own prepared-statement cache.
func Prepare(ctx context.Context, conn *pgconn.Conn, sql string) (*Statement, error) {
	paramOIDs, columns, err := conn.Describe(ctx, sql)
	if err != nil {
		return nil, err
	}

	return &Statement{SQL: sql, ParamOIDs: paramOIDs, Columns: columns}, nil
}

// Column returns the column at index.
func (s *Statement) Column(index int) (pgconn.Column, error) {
	if index < 0 || index >= len(s.Columns) {
		return pgconn.Column{}, &pgconn.ColumnIndexError{Index: index, Len: len(s.Columns)}
	}
	return s.Columns[index], nil
}

// TryColumn returns the column named name, or false if no column by
// that name is present.
func (s *Statement) TryColumn(name string) (pgconn.Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return pgconn.Column{}, false
}

// Query runs the statement with args through conn's Extended Query
// pipeline, materializing each returned row buffer into a *pgconn.Row
// against this Statement's Columns.
func (s *Statement) Query(ctx context.Context, conn *pgconn.Conn, args ...pgconn.Encoded) ([]*pgconn.Row, error) {
	buffers, err := conn.Query(ctx, s.SQL, args...)
	if err != nil {
		return nil, err
	}

	rows := make([]*pgconn.Row, len(buffers))
	for i, buf := range buffers {
		row, err := pgconn.NewRow(s.Columns, buf, conn.Types())
		if err != nil {
			return nil, fmt.Errorf("dbiface: row %d: %w", i, err)
		}
		rows[i] = row
	}
	return rows, nil
}

// QueryRow runs the statement and requires exactly one result row.
func (s *Statement) QueryRow(ctx context.Context, conn *pgconn.Conn, args ...pgconn.Encoded) (*pgconn.Row, error) {
	rows, err := s.Query(ctx, conn, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) != 1 {
		return nil, fmt.Errorf("dbiface: expected exactly one row, got %d", len(rows))
	}
	return rows[0], nil
}
