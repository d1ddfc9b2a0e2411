package reconcile

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnknownKey     = errors.New("key not found")
	ErrTypeMismatch   = errors.New("incorrect type")
	ErrLengthMismatch = errors.New("incorrect length")
)

// FieldError locates a failure at a namespace path such as "/usd_params/focal_length".
// Err is one of the package sentinels or a *callable.Error.
type FieldError struct {
	Path        string
	Key         string
	Expected    string
	Received    string
	Suggestions []string
	Err         error
}

func (e *FieldError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "reconcile: %v under namespace %s", e.Err, e.namespace())

	if e.Expected != "" || e.Received != "" {
		fmt.Fprintf(&b, ": expected %s, received %s", e.Expected, e.Received)
	}

	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, " (did you mean %s?)", strings.Join(quoteAll(e.Suggestions), " or "))
	}

	return b.String()
}

func (e *FieldError) Unwrap() error { return e.Err }

func (e *FieldError) namespace() string {
	if e.Path == "" {
		return "/"
	}

	return e.Path
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}

	return out
}

// describe names the type of v for diagnostics.
func describe(v any) string {
	if v == nil {
		return "<nil>"
	}

	return reflect.TypeOf(v).String()
}
