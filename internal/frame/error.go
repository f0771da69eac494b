package frame

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/heronpg/pgwire/pgproto/pgerr"
)

// ErrMissingNulTerminator is thrown when no NUL terminator is found when
// interpreting a message property as a string.
var ErrMissingNulTerminator = errors.New("NUL terminator not found")

// NewMissingNulTerminator constructs a new error wrapping
// ErrMissingNulTerminator with additional metadata.
func NewMissingNulTerminator() error {
	return pgerr.WithSeverity(pgerr.WithCode(ErrMissingNulTerminator, pgerr.ProtocolViolation), pgerr.LevelFatal)
}

// ErrInsufficientData is thrown when a message body is shorter than the
// field being decoded from it.
var ErrInsufficientData = errors.New("insufficient data")

// NewInsufficientData constructs a new error wrapping ErrInsufficientData
// with additional metadata.
func NewInsufficientData(length int) error {
	err := fmt.Errorf("length: %d %w", length, ErrInsufficientData)
	return pgerr.WithSeverity(pgerr.WithCode(err, pgerr.ProtocolViolation), pgerr.LevelFatal)
}

// ErrMessageSizeExceeded is thrown when the maximum message size is exceeded.
var ErrMessageSizeExceeded = MessageSizeExceeded{Message: "maximum message size exceeded"}

// MessageSizeExceeded indicates that a backend message's declared length
// exceeds the reader's configured maximum.
type MessageSizeExceeded struct {
	Message string
	Size    int
	Max     int
}

func (err MessageSizeExceeded) Error() string { return err.Message }

func (err MessageSizeExceeded) Is(target error) bool {
	return reflect.TypeOf(target) == reflect.TypeOf(err)
}

// NewMessageSizeExceeded constructs a new error wrapping MessageSizeExceeded
// with additional metadata.
func NewMessageSizeExceeded(max, size int) error {
	err := MessageSizeExceeded{
		Message: fmt.Sprintf("message size %d, bigger than maximum allowed message size %d", size, max),
		Size:    size,
		Max:     max,
	}

	return pgerr.WithSeverity(pgerr.WithCode(err, pgerr.ProgramLimitExceeded), pgerr.LevelError)
}

// UnwrapMessageSizeExceeded attempts to unwrap the given error as a
// MessageSizeExceeded. A boolean reports whether it was found.
func UnwrapMessageSizeExceeded(err error) (result MessageSizeExceeded, _ bool) {
	return result, errors.As(err, &result)
}
