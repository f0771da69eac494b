package dbiface

import (
	"context"
	"errors"

	"github.com/heronpg/pgwire/pgconn"
)

// ErrTransactionClosed is returned by Commit or Rollback when the
// Transaction was already committed or rolled back.
var ErrTransactionClosed = errors.New("dbiface: transaction already closed")

// Transaction wraps a *pgconn.Conn for the duration of a BEGIN/COMMIT or
// BEGIN/ROLLBACK bracket. Nested transactions and savepoints aren't
// supported, mirroring this module's single-Conn, no-savepoint scope —
// the original's Transaction type supports both via a depth counter,
// which this module has no use for against a single connection.
type Transaction struct {
	conn *pgconn.Conn
	done bool
}

// Begin issues BEGIN on conn and returns a Transaction bound to it.
func Begin(ctx context.Context, conn *pgconn.Conn) (*Transaction, error) {
	if _, err := conn.Query(ctx, "BEGIN"); err != nil {
		return nil, err
	}
	return &Transaction{conn: conn}, nil
}

// Commit issues COMMIT.
func (tx *Transaction) Commit(ctx context.Context) error {
	if tx.done {
		return ErrTransactionClosed
	}
	tx.done = true
	_, err := tx.conn.Query(ctx, "COMMIT")
	return err
}

// Rollback issues ROLLBACK.
func (tx *Transaction) Rollback(ctx context.Context) error {
	if tx.done {
		return ErrTransactionClosed
	}
	tx.done = true
	_, err := tx.conn.Query(ctx, "ROLLBACK")
	return err
}

// Query runs sql within the transaction.
func (tx *Transaction) Query(ctx context.Context, sql string, args ...pgconn.Encoded) ([]pgconn.RowBuffer, error) {
	return tx.conn.Query(ctx, sql, args...)
}

// Conn returns the Conn the Transaction is bound to, for callers that
// want to Prepare a Statement scoped to it.
func (tx *Transaction) Conn() *pgconn.Conn { return tx.conn }
