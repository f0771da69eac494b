package frame

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"log/slog"
)

// Writer provides a convenient way to assemble framed Postgres wire
// messages: a one-byte tag, a four-byte big-endian length backpatched once
// the message body is known, and the body itself.
type Writer struct {
	io.Writer
	logger *slog.Logger
	frame  bytes.Buffer
	putbuf [64]byte
	err    error
}

// NewWriter constructs a new frame writer for the given io.Writer.
func NewWriter(logger *slog.Logger, writer io.Writer) *Writer {
	if logger == nil {
		logger = slog.Default()
	}

	return &Writer{
		logger: logger,
		Writer: writer,
	}
}

// NewFrameBuilder constructs a Writer for assembling a single message frame
// in memory. Callers use Frame instead of End to retrieve the finished
// bytes, since there is no underlying io.Writer to flush to — this is what
// pgproto/frontend's Encode methods build each message on top of.
func NewFrameBuilder() *Writer {
	return &Writer{logger: slog.Default()}
}

// Start resets the frame and begins a new message with the given tag. The
// tag byte and a reserved 4-byte length field are written immediately.
func (writer *Writer) Start(tag byte) {
	writer.Reset()
	writer.putbuf[0] = tag
	writer.frame.Write(writer.putbuf[:5])
}

// AddByte writes a single byte to the frame.
func (writer *Writer) AddByte(b byte) {
	if writer.err != nil {
		return
	}

	writer.err = writer.frame.WriteByte(b)
}

// AddInt16 writes a big-endian int16 to the frame.
func (writer *Writer) AddInt16(i int16) (size int) {
	if writer.err != nil {
		return size
	}

	x := writer.putbuf[:2]
	binary.BigEndian.PutUint16(x, uint16(i))
	size, writer.err = writer.frame.Write(x)
	return size
}

// AddInt32 writes a big-endian int32 to the frame.
func (writer *Writer) AddInt32(i int32) (size int) {
	if writer.err != nil {
		return size
	}

	x := writer.putbuf[:4]
	binary.BigEndian.PutUint32(x, uint32(i))
	size, writer.err = writer.frame.Write(x)
	return size
}

// AddBytes writes b to the frame verbatim.
func (writer *Writer) AddBytes(b []byte) (size int) {
	if writer.err != nil {
		return size
	}

	size, writer.err = writer.frame.Write(b)
	return size
}

// AddString writes s to the frame verbatim (no terminator).
func (writer *Writer) AddString(s string) (size int) {
	if writer.err != nil {
		return size
	}

	size, writer.err = writer.frame.WriteString(s)
	return size
}

// AddNullTerminate appends a NUL byte, terminating a preceding string.
func (writer *Writer) AddNullTerminate() {
	if writer.err != nil {
		return
	}

	writer.err = writer.frame.WriteByte(0)
}

// Error returns the first error encountered while building the current
// frame, if any.
func (writer *Writer) Error() error {
	return writer.err
}

// Bytes returns the bytes written to the active frame so far.
func (writer *Writer) Bytes() []byte {
	return writer.frame.Bytes()
}

// Reset discards the active frame.
func (writer *Writer) Reset() {
	writer.frame.Reset()
	writer.err = nil
}

// Frame backpatches the message length and returns the finished frame
// bytes, without writing them anywhere or resetting the active frame — the
// caller copies them out (e.g. via append) before the next Start.
func (writer *Writer) Frame() []byte {
	buf := writer.frame.Bytes()
	length := uint32(writer.frame.Len() - 1) // excludes the tag byte
	binary.BigEndian.PutUint32(buf[1:5], length)
	return buf
}

// End backpatches the message length and flushes the frame to the
// underlying io.Writer, then resets the frame for the next message.
func (writer *Writer) End() error {
	defer writer.Reset()
	if writer.Error() != nil {
		return writer.Error()
	}

	buf := writer.frame.Bytes()
	length := uint32(writer.frame.Len() - 1) // excludes the tag byte
	binary.BigEndian.PutUint32(buf[1:5], length)

	_, err := writer.Write(buf)
	if writer.logger.Enabled(context.Background(), slog.LevelDebug) {
		writer.logger.Debug("-> sending message", slog.String("tag", string(buf[0])))
	}

	return err
}
