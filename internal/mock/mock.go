// Package mock provides a net.Pipe-backed duplex fixture for driving the
// protocol state machine in tests without a real socket. One half is
// wrapped as the client under test (a *socket.Socket); the test holds the
// other half to script backend bytes and inspect the frontend bytes it
// receives, including delivering a message in arbitrarily small chunks to
// exercise the read path's torn-frame resilience.
package mock

import (
	"encoding/binary"
	"net"

	"github.com/heronpg/pgwire/socket"
)

// Pipe returns a client-facing Socket backed by one half of an in-memory
// net.Pipe, and the raw net.Conn for the other half.
func Pipe() (*socket.Socket, net.Conn) {
	client, server := net.Pipe()
	return socket.New(client), server
}

// Frame builds a tagged, length-prefixed backend wire message: a 1-byte
// tag, a 4-byte big-endian length (inclusive of itself), then body.
func Frame(tag byte, body []byte) []byte {
	buf := make([]byte, 5+len(body))
	buf[0] = tag
	binary.BigEndian.PutUint32(buf[1:5], uint32(len(body)+4))
	copy(buf[5:], body)
	return buf
}

// Chunks splits buf into pieces of at most size bytes, for feeding a
// message to a reader one tiny write at a time.
func Chunks(buf []byte, size int) [][]byte {
	var out [][]byte
	for len(buf) > 0 {
		n := size
		if n > len(buf) {
			n = len(buf)
		}
		out = append(out, buf[:n])
		buf = buf[n:]
	}
	return out
}
