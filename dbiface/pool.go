package dbiface

import (
	"context"
	"fmt"
	"sync"

	"github.com/heronpg/pgwire/pgconn"
)

// Pool is a small, fixed-capacity free-list of Conns, opened lazily up
// to capacity and reused across Acquire/release cycles. It is the only
// component in this module whose whole purpose is being shared across
// goroutines; everything below it (Conn) is single-owner.
//
// Pooling policy beyond bounding concurrent Conns — health checks, idle
// reaping, retry/backoff — is out of scope here; this is deliberately
// the minimum that makes concurrent callers safe to share one Pool.
type Pool struct {
	dial     func(ctx context.Context) (*pgconn.Conn, error)
	capacity int

	mu      sync.Mutex
	idle    []*pgconn.Conn
	opened  int
	waiters chan struct{}
}

// NewPool constructs a Pool that dials new connections on demand via
// dial, up to capacity concurrently-acquired Conns.
func NewPool(capacity int, dial func(ctx context.Context) (*pgconn.Conn, error)) *Pool {
	return &Pool{
		dial:     dial,
		capacity: capacity,
		waiters:  make(chan struct{}, capacity),
	}
}

// Acquire returns a Conn from the idle list, dials a fresh one if under
// capacity, or blocks until one is released otherwise. The returned
// release func must be called exactly once.
func (p *Pool) Acquire(ctx context.Context) (*pgconn.Conn, func(), error) {
	for {
		p.mu.Lock()
		if n := len(p.idle); n > 0 {
			conn := p.idle[n-1]
			p.idle = p.idle[:n-1]
			p.mu.Unlock()
			return conn, func() { p.release(conn) }, nil
		}

		if p.opened < p.capacity {
			p.opened++
			p.mu.Unlock()

			conn, err := p.dial(ctx)
			if err != nil {
				p.mu.Lock()
				p.opened--
				p.mu.Unlock()
				return nil, nil, fmt.Errorf("dbiface: dial: %w", err)
			}
			return conn, func() { p.release(conn) }, nil
		}
		p.mu.Unlock()

		select {
		case <-p.waiters:
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}
	}
}

func (p *Pool) release(conn *pgconn.Conn) {
	p.mu.Lock()
	p.idle = append(p.idle, conn)
	p.mu.Unlock()

	select {
	case p.waiters <- struct{}{}:
	default:
	}
}

// Close closes every idle Conn. Conns still checked out are left for
// their holder to release and close.
func (p *Pool) Close(ctx context.Context) error {
	p.mu.Lock()
	idle := p.idle
	p.idle = nil
	p.mu.Unlock()

	var firstErr error
	for _, conn := range idle {
		if err := conn.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Begin acquires a Conn and opens a Transaction on it. The returned
// release func must still be called once the Transaction is committed
// or rolled back.
func (p *Pool) Begin(ctx context.Context) (*Transaction, func(), error) {
	conn, release, err := p.Acquire(ctx)
	if err != nil {
		return nil, nil, err
	}

	tx, err := Begin(ctx, conn)
	if err != nil {
		release()
		return nil, nil, err
	}

	return tx, release, nil
}
