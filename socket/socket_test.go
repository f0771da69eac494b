package socket_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/heronpg/pgwire/socket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWriteAllBuf(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	a := socket.New(client)
	b := socket.New(server)

	go func() {
		err := a.WriteAllBuf(context.Background(), []byte("hello"))
		assert.NoError(t, err)
	}()

	buf := make([]byte, 5)
	n, err := b.ReadBuf(context.Background(), buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf[:n]))
}

func TestReadBufHonorsDeadline(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	a := socket.New(client)

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()

	buf := make([]byte, 1)
	_, err := a.ReadBuf(ctx, buf)
	require.Error(t, err)
}

func TestClose(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	a := socket.New(client)
	require.NoError(t, a.Close())

	_, err := a.ReadBuf(context.Background(), make([]byte, 1))
	require.Error(t, err)
}
