package pgerr

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var errMissingTerminator = errors.New("error field missing NUL terminator")

// DatabaseError is the decoded body of an ErrorResponse or NoticeResponse
// message: a set of identified fields, each a single tag byte followed by
// a NUL-terminated string, terminated by a zero byte.
//
// https://www.postgresql.org/docs/current/protocol-error-fields.html
type DatabaseError struct {
	SeverityLocalized string
	Severity          Severity
	Code              Code
	Message           string
	Detail            string
	Hint              string
	Position          string
	InternalPosition  string
	InternalQuery     string
	Where             string
	SchemaName        string
	TableName         string
	ColumnName        string
	DataTypeName      string
	ConstraintName    string
	FileName          string
	Line              string
	Routine           string
}

// DecodeDatabaseError parses a field-tagged ErrorResponse/NoticeResponse
// body. Unrecognized field tags are silently skipped, per protocol.
// Missing required fields (severity, code, message) default to a
// placeholder describing what is missing rather than leaving the zero
// value, so a caller printing the error always gets a useful string.
func DecodeDatabaseError(body []byte) (DatabaseError, error) {
	err := DatabaseError{
		SeverityLocalized: "severity field missing",
		Code:              "code field missing",
		Message:           "message field missing",
	}

	for len(body) > 0 {
		tag := body[0]
		body = body[1:]
		if tag == 0 {
			break
		}

		end := indexNul(body)
		if end == -1 {
			return err, fmt.Errorf("error field %q: %w", string(tag), errMissingTerminator)
		}

		value := string(body[:end])
		body = body[end+1:]

		if !utf8.ValidString(value) {
			return err, fmt.Errorf("error field %q: not valid UTF-8", string(tag))
		}

		switch tag {
		case 'S':
			err.SeverityLocalized = value
		case 'V':
			err.Severity = Severity(value)
		case 'C':
			err.Code = Code(value)
		case 'M':
			err.Message = value
		case 'D':
			err.Detail = value
		case 'H':
			err.Hint = value
		case 'P':
			err.Position = value
		case 'p':
			err.InternalPosition = value
		case 'q':
			err.InternalQuery = value
		case 'W':
			err.Where = value
		case 's':
			err.SchemaName = value
		case 't':
			err.TableName = value
		case 'c':
			err.ColumnName = value
		case 'd':
			err.DataTypeName = value
		case 'n':
			err.ConstraintName = value
		case 'F':
			err.FileName = value
		case 'L':
			err.Line = value
		case 'R':
			err.Routine = value
		}
	}

	if err.Severity == "" {
		err.Severity = Severity(err.SeverityLocalized)
	}

	return err, nil
}

func indexNul(b []byte) int {
	for i, c := range b {
		if c == 0 {
			return i
		}
	}
	return -1
}

func (err DatabaseError) Error() string {
	if err.Hint != "" {
		return fmt.Sprintf("[%s] %s (%s), HINT: %s", err.SeverityLocalized, err.Message, err.Code, err.Hint)
	}
	return fmt.Sprintf("[%s] %s (%s)", err.SeverityLocalized, err.Message, err.Code)
}
