package dbiface_test

import (
	"context"
	"encoding/binary"
	"io"
	"net"
	"testing"

	"github.com/heronpg/pgwire/internal/mock"
	"github.com/heronpg/pgwire/pgconn"
	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/require"
)

// readTagged reads one tagged, length-prefixed message off conn,
// returning its tag and body. Shared across this package's tests, same
// shape as pgconn's own integration test helper.
func readTagged(t *testing.T, conn net.Conn) (byte, []byte) {
	t.Helper()

	var header [5]byte
	_, err := io.ReadFull(conn, header[:])
	require.NoError(t, err)

	size := binary.BigEndian.Uint32(header[1:5]) - 4
	body := make([]byte, size)
	if size > 0 {
		_, err = io.ReadFull(conn, body)
		require.NoError(t, err)
	}

	return header[0], body
}

// dialFake opens a Conn against a scripted backend that accepts the
// startup with no authentication required and answers ReadyForQuery
// immediately, returning the Conn and a handler the caller drives to
// script whatever the Conn does next on the wire.
func dialFake(t *testing.T) (*pgconn.Conn, net.Conn) {
	t.Helper()

	sock, server := mock.Pipe()

	go func() {
		var lenBuf [4]byte
		_, _ = io.ReadFull(server, lenBuf[:])
		size := binary.BigEndian.Uint32(lenBuf[:]) - 4
		body := make([]byte, size)
		_, _ = io.ReadFull(server, body)

		_, _ = server.Write(mock.Frame('R', make([]byte, 4)))
		_, _ = server.Write(mock.Frame('Z', []byte{'I'}))
	}()

	conn, err := pgconn.ConnectConfigSocket(context.Background(), sock, pgconn.PgOptions{
		Scheme: "postgres",
		User:   "user",
		DBName: "post",
	}, pgconn.WithLogger(slogt.New(t)))
	require.NoError(t, err)

	return conn, server
}
