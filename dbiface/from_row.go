package dbiface

import "github.com/heronpg/pgwire/pgconn"

// FromRow decodes a single *pgconn.Row into a T. In the original this
// was a trait implemented via a derive macro for tuples and user
// structs; Go has no derive, so any function value of this shape plays
// the same role at call sites.
type FromRow[T any] func(row *pgconn.Row) (T, error)

// CollectRows applies fn to every row in order, stopping at the first
// error.
func CollectRows[T any](rows []*pgconn.Row, fn FromRow[T]) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		v, err := fn(row)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
