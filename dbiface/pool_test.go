package dbiface_test

import (
	"context"
	"testing"
	"time"

	"github.com/heronpg/pgwire/dbiface"
	"github.com/heronpg/pgwire/pgconn"
	"github.com/stretchr/testify/require"
)

func TestPoolReusesIdleConn(t *testing.T) {
	dialCount := 0
	pool := dbiface.NewPool(1, func(ctx context.Context) (*pgconn.Conn, error) {
		dialCount++
		conn, _ := dialFake(t)
		return conn, nil
	})

	ctx := context.Background()

	conn1, release1, err := pool.Acquire(ctx)
	require.NoError(t, err)
	release1()

	conn2, release2, err := pool.Acquire(ctx)
	require.NoError(t, err)
	defer release2()

	require.Same(t, conn1, conn2)
	require.Equal(t, 1, dialCount)
}

func TestPoolBlocksAtCapacity(t *testing.T) {
	pool := dbiface.NewPool(1, func(ctx context.Context) (*pgconn.Conn, error) {
		conn, _ := dialFake(t)
		return conn, nil
	})

	ctx := context.Background()

	_, release, err := pool.Acquire(ctx)
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		_, release2, err := pool.Acquire(ctx)
		require.NoError(t, err)
		defer release2()
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second Acquire must block while the pool is at capacity")
	case <-time.After(50 * time.Millisecond):
	}

	release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second Acquire should have unblocked once the first was released")
	}
}

func TestPoolAcquireRespectsContextCancellation(t *testing.T) {
	pool := dbiface.NewPool(1, func(ctx context.Context) (*pgconn.Conn, error) {
		conn, _ := dialFake(t)
		return conn, nil
	})

	ctx := context.Background()
	_, _, err := pool.Acquire(ctx)
	require.NoError(t, err)

	cancelCtx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = pool.Acquire(cancelCtx)
	require.ErrorIs(t, err, context.Canceled)
}
