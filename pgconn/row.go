package pgconn

import (
	"fmt"

	"github.com/heronpg/pgwire/pgproto/backend"
	"github.com/lib/pq/oid"
)

// RowBuffer is a zero-copy-on-receipt view into one backend.DataRow: each
// element is either nil (SQL NULL) or the column's binary payload. Values
// are copied out of the stream's internal buffer once (so they outlive
// the next recv call) but are not yet decoded against a type — that's
// what Row is for.
type RowBuffer struct {
	Values [][]byte
}

// Column returns the raw bytes for the column at i and whether it was
// non-NULL, or a ColumnIndexOutOfBounds-kind error if i is out of range —
// the bounds-checked accessor base Query() callers index through instead
// of the exported Values slice directly, mirroring Row.Index.
func (b RowBuffer) Column(i int) ([]byte, bool, error) {
	if i < 0 || i >= len(b.Values) {
		return nil, false, wrap(KindColumnIndexOutOfBounds, &ColumnIndexError{Index: i, Len: len(b.Values)})
	}
	return b.Values[i], b.Values[i] != nil, nil
}

// Column describes one result column, decoded from a RowDescription.
type Column struct {
	Name         string
	TableOID     uint32
	AttrNum      uint16
	TypeOID      oid.Oid
	TypeSize     int16
	TypeModifier int32
	Format       int16
}

// columnsFromDescription converts a decoded RowDescription into the
// Column slice every RowBuffer from the same portal is shaped against.
func columnsFromDescription(desc *backend.RowDescription) []Column {
	columns := make([]Column, len(desc.Fields))
	for i, f := range desc.Fields {
		columns[i] = Column{
			Name:         f.Name,
			TableOID:     f.TableOID,
			AttrNum:      f.TableAttNum,
			TypeOID:      oid.Oid(f.TypeOID),
			TypeSize:     f.TypeSize,
			TypeModifier: f.TypeModifier,
			Format:       f.Format,
		}
	}
	return columns
}

// Row pairs one RowBuffer with the Columns of its originating
// RowDescription. Index is O(1); Value finds a column by name with a
// linear scan over the columns.
type Row struct {
	columns []Column
	values  [][]byte
	types   *TypeRegistry
}

// NewRow materializes buf against columns using types for decoding.
func NewRow(columns []Column, buf RowBuffer, types *TypeRegistry) (*Row, error) {
	if len(buf.Values) != len(columns) {
		return nil, &ColumnCountError{Want: len(columns), Got: len(buf.Values)}
	}

	return &Row{columns: columns, values: buf.Values, types: types}, nil
}

// Len returns the number of columns in the row.
func (r *Row) Len() int { return len(r.columns) }

// Value returns the raw, still-binary-encoded bytes for the named
// column and whether it was present and non-NULL.
func (r *Row) Value(name string) ([]byte, bool, error) {
	for i, c := range r.columns {
		if c.Name == name {
			return r.values[i], r.values[i] != nil, nil
		}
	}
	return nil, false, fmt.Errorf("pgconn: no such column %q", name)
}

// Index returns the raw bytes for the column at i and whether it was
// non-NULL.
func (r *Row) Index(i int) ([]byte, bool, error) {
	if i < 0 || i >= len(r.values) {
		return nil, false, wrap(KindColumnIndexOutOfBounds, &ColumnIndexError{Index: i, Len: len(r.values)})
	}
	return r.values[i], r.values[i] != nil, nil
}

// Scan decodes each column of the row into the corresponding dest
// pointer, in column order. A NULL column leaves its destination
// untouched.
func (r *Row) Scan(dest ...any) error {
	if len(dest) != len(r.columns) {
		return wrap(KindColumnIndexOutOfBounds, &ColumnCountError{Want: len(r.columns), Got: len(dest)})
	}

	for i, d := range dest {
		if r.values[i] == nil {
			continue
		}

		if err := r.types.Scan(uint32(r.columns[i].TypeOID), r.values[i], d); err != nil {
			return fmt.Errorf("pgconn: column %q: %w", r.columns[i].Name, err)
		}
	}

	return nil
}
