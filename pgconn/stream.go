package pgconn

import (
	"context"
	"log/slog"

	"github.com/heronpg/pgwire/internal/frame"
	"github.com/heronpg/pgwire/pgproto/backend"
	"github.com/heronpg/pgwire/pgproto/frontend"
	"github.com/heronpg/pgwire/socket"
)

// stream pairs a socket with the frame reader that turns its incoming
// bytes into tagged backend messages, and a growable buffer that
// frontend messages append onto before a single flush. This is the Go
// stand-in for an async PostgresIo trait: send/sendStartup buffer without
// suspending, flush is the one point that actually touches the wire, and
// recv is the one point that waits on it.
type stream struct {
	sock   *socket.Socket
	logger *slog.Logger

	in     *ctxReader
	reader *frame.Reader

	sendBuf []byte
}

// ctxReader adapts a socket.Socket, which takes a context per call, to the
// plain io.Reader frame.Reader expects. ctx is set by recv immediately
// before use (flush passes its ctx to the socket directly); the stream is never used concurrently so this
// is safe.
type ctxReader struct {
	sock *socket.Socket
	ctx  context.Context
}

func (r *ctxReader) Read(p []byte) (int, error) {
	return r.sock.ReadBuf(r.ctx, p)
}

// newStream constructs a stream over an already-dialed socket.
func newStream(sock *socket.Socket, logger *slog.Logger, bufferSize int) *stream {
	in := &ctxReader{sock: sock}

	return &stream{
		sock:   sock,
		logger: logger,
		in:     in,
		reader: frame.NewReader(logger, in, bufferSize),
	}
}

// send appends msg's wire encoding onto the pending write buffer without
// touching the socket. Parse/Bind/Execute/Sync pipeline this way into one
// flush.
func (s *stream) send(msg frontend.Message) {
	s.sendBuf = msg.Encode(s.sendBuf)
}

// sendStartup buffers the untagged StartupMessage, which must be the
// first thing written to a fresh connection.
func (s *stream) sendStartup(msg *frontend.StartupMessage) {
	s.sendBuf = msg.Encode(s.sendBuf)
}

// flush writes every message buffered since the last flush in one write,
// honoring ctx's deadline.
func (s *stream) flush(ctx context.Context) error {
	if len(s.sendBuf) == 0 {
		return nil
	}

	buf := s.sendBuf
	s.sendBuf = s.sendBuf[:0]

	if err := s.sock.WriteAllBuf(ctx, buf); err != nil {
		return err
	}

	if s.logger.Enabled(ctx, slog.LevelDebug) {
		s.logger.Debug("-> flushed frontend messages", slog.Int("bytes", len(buf)))
	}

	return nil
}

// recv reads and decodes the next backend message, honoring ctx's
// deadline. The returned Message's byte fields alias the stream's
// internal buffer and are only valid until the next recv call.
func (s *stream) recv(ctx context.Context) (backend.Message, error) {
	s.in.ctx = ctx

	tag, _, err := s.reader.ReadTypedMsg()
	if err != nil {
		return nil, err
	}

	msg, err := backend.Decode(tag, s.reader.Msg)
	if err != nil {
		return nil, wrap(KindProtocol, err)
	}

	if s.logger.Enabled(ctx, slog.LevelDebug) {
		s.logger.Debug("<- received backend message", slog.String("tag", string(tag)))
	}

	return msg, nil
}

func (s *stream) close() error {
	return s.sock.Close()
}
