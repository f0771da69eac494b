package frame_test

import (
	"net"
	"testing"
	"time"

	"github.com/heronpg/pgwire/internal/frame"
	"github.com/heronpg/pgwire/internal/mock"
	"github.com/stretchr/testify/require"
)

// TestReadTypedMsgTornAcrossReads delivers a single ReadyForQuery frame one
// byte at a time, the torn-read scenario spec.md §8 names as testable
// property 3: the reader must still yield exactly one message regardless of
// how the underlying stream chunks its bytes.
func TestReadTypedMsgTornAcrossReads(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	msg := mock.Frame('Z', []byte{'I'})

	go func() {
		for _, chunk := range mock.Chunks(msg, 1) {
			if _, err := server.Write(chunk); err != nil {
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	reader := frame.NewReader(nil, client, 0)

	tag, n, err := reader.ReadTypedMsg()
	require.NoError(t, err)
	require.Equal(t, byte('Z'), tag)
	require.Equal(t, len(msg), n)
	require.Equal(t, []byte{'I'}, reader.Msg)
}

// TestReadTypedMsgMultipleMessagesTorn delivers two back-to-back frames
// split at arbitrary one- and two-byte boundaries, confirming the reader
// doesn't consume into the next message's bytes.
func TestReadTypedMsgMultipleMessagesTorn(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	first := mock.Frame('1', nil)
	second := mock.Frame('D', []byte{0, 1, 0, 0, 0, 1, 'x'})

	go func() {
		for _, chunk := range mock.Chunks(append(append([]byte{}, first...), second...), 2) {
			if _, err := server.Write(chunk); err != nil {
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	reader := frame.NewReader(nil, client, 0)

	tag, _, err := reader.ReadTypedMsg()
	require.NoError(t, err)
	require.Equal(t, byte('1'), tag)
	require.Empty(t, reader.Msg)

	tag, _, err = reader.ReadTypedMsg()
	require.NoError(t, err)
	require.Equal(t, byte('D'), tag)
	require.Equal(t, []byte{0, 1, 0, 0, 0, 1, 'x'}, reader.Msg)
}
