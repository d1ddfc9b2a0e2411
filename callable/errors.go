package callable

import (
	"errors"
	"fmt"
)

var (
	ErrEncoding    = errors.New("callable: cannot encode")
	ErrFormat      = errors.New("callable: malformed reference, want 'module:attribute'")
	ErrResolution  = errors.New("callable: cannot resolve")
	ErrNotCallable = errors.New("callable: resolved value is not callable")

	ErrDuplicate = errors.New("callable: duplicate registration")
	ErrSealed    = errors.New("callable: sealed registry")
)

// Error describes a failed encode or decode. Err is one of the package
// sentinels; Cause carries the underlying reason.
type Error struct {
	Op    string
	Input string
	Err   error
	Cause error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %q: %v", e.Op, e.Input, e.Err)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}

	return msg
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}

	return []error{e.Err, e.Cause}
}
