// Package socket provides the duplex byte-stream transport a PgStream is
// built on: a TCP or Unix domain socket with TCP_NODELAY set, exposing
// read/write that apply ctx's deadline so callers can time out a pending
// network call. Cancelling a ctx that has no deadline does not interrupt a
// pending call. No protocol semantics live here.
package socket

import (
	"context"
	"net"
	"strconv"
	"strings"
	"time"
)

// Socket wraps either a *net.TCPConn or a *net.UnixConn behind a single
// net.Conn-shaped surface, set up with the options this module always
// wants (TCP_NODELAY on TCP).
type Socket struct {
	conn net.Conn
}

// Dial connects to host:port (TCP) or, if host begins with "/", to the
// Unix domain socket at that path.
func Dial(ctx context.Context, host string, port uint16) (*Socket, error) {
	if strings.HasPrefix(host, "/") {
		return DialUnix(ctx, host)
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(int(port))))
	if err != nil {
		return nil, err
	}

	if tcp, ok := conn.(*net.TCPConn); ok {
		if err := tcp.SetNoDelay(true); err != nil {
			conn.Close()
			return nil, err
		}
	}

	return &Socket{conn: conn}, nil
}

// New wraps an already-established net.Conn (e.g. one half of a
// net.Pipe) as a Socket, bypassing Dial/DialUnix. Intended for tests that
// drive the protocol state machine without a real TCP/Unix listener.
func New(conn net.Conn) *Socket {
	return &Socket{conn: conn}
}

// DialUnix connects to the Unix domain socket at path.
func DialUnix(ctx context.Context, path string) (*Socket, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, err
	}

	return &Socket{conn: conn}, nil
}

// ReadBuf reads at least one chunk of data into buf, honoring ctx's
// deadline if one is set. It is the Go stand-in for the Rust
// Socket::read_buf future's suspension point.
func (s *Socket) ReadBuf(ctx context.Context, buf []byte) (int, error) {
	if err := s.applyDeadline(ctx); err != nil {
		return 0, err
	}

	return s.conn.Read(buf)
}

// WriteAllBuf writes all of buf, honoring ctx's deadline if one is set.
func (s *Socket) WriteAllBuf(ctx context.Context, buf []byte) error {
	if err := s.applyDeadline(ctx); err != nil {
		return err
	}

	for len(buf) > 0 {
		n, err := s.conn.Write(buf)
		if err != nil {
			return err
		}
		buf = buf[n:]
	}

	return nil
}

func (s *Socket) applyDeadline(ctx context.Context) error {
	deadline, ok := ctx.Deadline()
	if !ok {
		return s.conn.SetDeadline(time.Time{})
	}

	return s.conn.SetDeadline(deadline)
}

// Close closes the underlying connection.
func (s *Socket) Close() error {
	return s.conn.Close()
}

// LocalAddr returns the local network address.
func (s *Socket) LocalAddr() net.Addr { return s.conn.LocalAddr() }

// RemoteAddr returns the remote network address.
func (s *Socket) RemoteAddr() net.Addr { return s.conn.RemoteAddr() }

