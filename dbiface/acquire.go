package dbiface

import (
	"context"

	"github.com/heronpg/pgwire/pgconn"
)

// Acquire is implemented by anything that can hand out a *pgconn.Conn
// for the duration of a caller's use, and take it back afterward. This
// is the Go rendition of the original's Acquire trait (acquire/begin),
// here expressed as a single method since Go has no borrowed-future
// equivalent to return alongside it — callers call the returned release
// func instead of dropping a guard value.
//
// Pool implements Acquire directly. A bare *pgconn.Conn can trivially
// satisfy it too via a no-op release.
type Acquire interface {
	Acquire(ctx context.Context) (conn *pgconn.Conn, release func(), err error)
}

// connAcquire adapts a single, already-open *pgconn.Conn to Acquire: release
// is a no-op, since a bare Conn has nowhere to return itself to.
type connAcquire struct {
	conn *pgconn.Conn
}

// SingleConn wraps conn as an Acquire of one, for callers that want to
// hand a Statement a uniform Acquire without standing up a Pool.
func SingleConn(conn *pgconn.Conn) Acquire {
	return connAcquire{conn: conn}
}

func (a connAcquire) Acquire(context.Context) (*pgconn.Conn, func(), error) {
	return a.conn, func() {}, nil
}
