package repl

import "strings"

// Error is a REPL-local error with an optional detail message.
type Error struct {
	msg    string
	detail string
}

func NewError(msg string) *Error {
	return &Error{msg: msg}
}

func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.detail != "" {
		part = append(part, e.detail)
	}

	return strings.Join(part, ": ")
}

// Is matches any Error sharing the same base message, so wrapped sentinels
// compare with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg == e.msg
}

// because returns a copy of the error carrying a detail message.
func (e *Error) because(detail string) *Error {
	return &Error{msg: e.msg, detail: detail}
}

var (
	ErrParse       = NewError("cannot parse input")
	ErrOutOfBounds = NewError("history index out of range")
	ErrNoRegistry  = NewError("repl requires a frozen type registry")
)
