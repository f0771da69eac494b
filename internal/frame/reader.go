package frame

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"log/slog"
	"unsafe"
)

// DefaultBufferSize represents the default buffer size whenever the buffer
// size is not set or a negative value is presented.
const DefaultBufferSize = 1 << 20 // 1048576 bytes

// BufferedReader extends io.Reader with the convenience methods the frame
// reader is built on top of.
type BufferedReader interface {
	io.Reader
	ReadByte() (byte, error)
}

// Reader provides a convenient way to read framed Postgres wire messages
// off of a backend connection: a one-byte tag followed by a four-byte
// big-endian length (inclusive of itself) followed by the message body.
type Reader struct {
	logger         *slog.Logger
	Buffer         BufferedReader
	Msg            []byte
	MaxMessageSize int
	header         [4]byte
}

// NewReader constructs a new frame reader for the given io.Reader.
func NewReader(logger *slog.Logger, reader io.Reader, bufferSize int) *Reader {
	if reader == nil {
		return nil
	}

	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Reader{
		logger:         logger,
		Buffer:         bufio.NewReaderSize(reader, bufferSize),
		MaxMessageSize: bufferSize,
	}
}

// reset sets reader.Msg to exactly size, reusing spare capacity at the end
// of the existing slice when possible and allocating a new slice otherwise.
func (reader *Reader) reset(size int) {
	if reader.Msg != nil {
		reader.Msg = reader.Msg[len(reader.Msg):]
	}

	if cap(reader.Msg) >= size {
		reader.Msg = reader.Msg[:size]
		return
	}

	allocSize := size
	if allocSize < 4096 {
		allocSize = 4096
	}
	reader.Msg = make([]byte, size, allocSize)
}

// ReadTag reads the single-byte backend message tag.
func (reader *Reader) ReadTag() (byte, error) {
	return reader.Buffer.ReadByte()
}

// ReadTypedMsg reads a tagged, length-prefixed message, returning its tag
// and the number of bytes consumed (tag + length + body).
func (reader *Reader) ReadTypedMsg() (byte, int, error) {
	tag, err := reader.ReadTag()
	if err != nil {
		return tag, 0, err
	}

	n, err := reader.ReadUntypedMsg()
	if err != nil {
		return 0, 0, err
	}

	return tag, n + 1, nil
}

// Slurp discards size bytes from the underlying stream, in MaxMessageSize
// chunks, without retaining them. Used to drain a message body once it is
// known to exceed the configured maximum.
func (reader *Reader) Slurp(size int) error {
	remaining := size
	for remaining > 0 {
		reading := remaining
		if reading > reader.MaxMessageSize {
			reading = reader.MaxMessageSize
		}

		reader.reset(reading)

		n, err := io.ReadFull(reader.Buffer, reader.Msg)
		if err != nil {
			return err
		}

		remaining -= n
	}

	return nil
}

// ReadMsgSize reads the 4-byte big-endian length prefix of the next
// message, returning the body length (the prefix counts its own 4 bytes,
// which are subtracted here).
func (reader *Reader) ReadMsgSize() (int, error) {
	nread, err := io.ReadFull(reader.Buffer, reader.header[:])
	if err != nil {
		return nread, err
	}

	size := int(binary.BigEndian.Uint32(reader.header[:]))
	size -= 4
	return size, nil
}

// ReadUntypedMsg reads a length-prefixed message body into reader.Msg. It
// returns the number of bytes read (length prefix included) and an error,
// if any. If the declared size exceeds MaxMessageSize, the body is drained
// and MessageSizeExceeded is returned.
func (reader *Reader) ReadUntypedMsg() (int, error) {
	size, err := reader.ReadMsgSize()
	if err != nil {
		return 0, err
	}

	if size > reader.MaxMessageSize || size < 0 {
		if serr := reader.Slurp(size); serr != nil {
			return 0, serr
		}
		return len(reader.header), NewMessageSizeExceeded(reader.MaxMessageSize, size)
	}

	reader.reset(size)
	n, err := io.ReadFull(reader.Buffer, reader.Msg)
	return len(reader.header) + n, err
}

// GetString reads a null-terminated string from the front of reader.Msg.
func (reader *Reader) GetString() (string, error) {
	pos := bytes.IndexByte(reader.Msg, 0)
	if pos == -1 {
		return "", NewMissingNulTerminator()
	}

	// Zero-copy conversion: safe because reader.Msg is never mutated or
	// reused once handed out this way.
	s := reader.Msg[:pos]
	reader.Msg = reader.Msg[pos+1:]
	return *((*string)(unsafe.Pointer(&s))), nil
}

// GetBytes returns the next n bytes of reader.Msg. n == -1 signals a SQL
// NULL column value and returns (nil, nil).
func (reader *Reader) GetBytes(n int) ([]byte, error) {
	if n == -1 {
		return nil, nil
	}
	if len(reader.Msg) < n {
		return nil, NewInsufficientData(len(reader.Msg))
	}

	v := reader.Msg[:n]
	reader.Msg = reader.Msg[n:]
	return v, nil
}

// GetByte returns the next byte of reader.Msg.
func (reader *Reader) GetByte() (byte, error) {
	if len(reader.Msg) < 1 {
		return 0, NewInsufficientData(len(reader.Msg))
	}

	v := reader.Msg[0]
	reader.Msg = reader.Msg[1:]
	return v, nil
}

// GetUint16 returns the next 2 bytes of reader.Msg as a big-endian uint16.
func (reader *Reader) GetUint16() (uint16, error) {
	if len(reader.Msg) < 2 {
		return 0, NewInsufficientData(len(reader.Msg))
	}

	v := binary.BigEndian.Uint16(reader.Msg[:2])
	reader.Msg = reader.Msg[2:]
	return v, nil
}

// GetUint32 returns the next 4 bytes of reader.Msg as a big-endian uint32.
func (reader *Reader) GetUint32() (uint32, error) {
	if len(reader.Msg) < 4 {
		return 0, NewInsufficientData(len(reader.Msg))
	}

	v := binary.BigEndian.Uint32(reader.Msg[:4])
	reader.Msg = reader.Msg[4:]
	return v, nil
}

// GetInt16 returns the next 2 bytes of reader.Msg as a big-endian int16.
func (reader *Reader) GetInt16() (int16, error) {
	v, err := reader.GetUint16()
	return int16(v), err
}

// GetInt32 returns the next 4 bytes of reader.Msg as a big-endian int32.
func (reader *Reader) GetInt32() (int32, error) {
	v, err := reader.GetUint32()
	return int32(v), err
}
