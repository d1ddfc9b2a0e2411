package diagnostic

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"config-reconciler/callable"
	"config-reconciler/plain"
	"config-reconciler/reconcile"
)

// Severity ranks a Diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota + 1
	SeverityError
)

// Diagnostic codes.
const (
	CodeInvalidInput   = "invalid_input"
	CodeUnknownKey     = "unknown_key"
	CodeTypeMismatch   = "type_mismatch"
	CodeLengthMismatch = "length_mismatch"
	CodeCallable       = "callable"
	CodeDroppedKeys    = "dropped_keys"
	CodeOther          = "error"
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostic is a single finding about a configuration file.
type Diagnostic struct {
	Severity Severity
	// Code identifies the kind of finding.
	Code    string
	Message string
	// Target names the checked file or profile (if any).
	Target string
	// FieldPath locates the finding inside the configuration (if any).
	FieldPath   string
	Suggestions []string
}

// String formats d as "[target] path: [code] message (did you mean ...?)".
func (d Diagnostic) String() string {
	var b strings.Builder

	if d.Target != "" {
		fmt.Fprintf(&b, "[%s] ", d.Target)
	}

	if d.FieldPath != "" {
		b.WriteString(d.FieldPath + ": ")
	}

	if d.Code != "" {
		fmt.Fprintf(&b, "[%s] ", d.Code)
	}

	b.WriteString(d.Message)

	if len(d.Suggestions) > 0 {
		b.WriteString(" (did you mean " + strings.Join(d.Suggestions, ", ") + "?)")
	}

	return b.String()
}

// Report collects the diagnostics of one or more checked files.
type Report struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
}

// Check validates data against obj with reconcile.Check. Failures become
// errors; mapping keys a merge of data would drop become warnings.
func Check(target string, obj any, data *plain.Map, opts ...reconcile.Option) Report {
	var r Report

	opts = append(opts, reconcile.WithDropped(func(ns string, keys []string) {
		r.Warnings = append(r.Warnings, Diagnostic{
			Severity:  SeverityWarning,
			Code:      CodeDroppedKeys,
			Message:   "mapping is replaced; keys not carried over: " + strings.Join(keys, ", "),
			Target:    target,
			FieldPath: ns,
		})
	}))

	r.Append(FromErrors(target, reconcile.Check(obj, data, opts...)))

	return r
}

// FromErrors converts the failures returned by reconcile.Check into error
// diagnostics for target.
func FromErrors(target string, errs []error) Report {
	var r Report

	for _, err := range errs {
		diag := Diagnostic{
			Severity: SeverityError,
			Code:     codeOf(err),
			Message:  err.Error(),
			Target:   target,
		}

		var ferr *reconcile.FieldError
		if errors.As(err, &ferr) {
			diag.FieldPath = ferr.Path
			diag.Message = describe(ferr)
			diag.Suggestions = ferr.Suggestions
		}

		r.Errors = append(r.Errors, diag)
	}

	return r
}

func codeOf(err error) string {
	var cerr *callable.Error

	switch {
	case errors.Is(err, reconcile.ErrUnknownKey):
		return CodeUnknownKey
	case errors.Is(err, reconcile.ErrTypeMismatch):
		return CodeTypeMismatch
	case errors.Is(err, reconcile.ErrLengthMismatch):
		return CodeLengthMismatch
	case errors.Is(err, reconcile.ErrInvalidInput):
		return CodeInvalidInput
	case errors.As(err, &cerr):
		return CodeCallable
	default:
		return CodeOther
	}
}

func describe(ferr *reconcile.FieldError) string {
	msg := ferr.Err.Error()
	if ferr.Expected != "" || ferr.Received != "" {
		msg += fmt.Sprintf(": expected %s, received %s", ferr.Expected, ferr.Received)
	}

	return msg
}

// Append adds the diagnostics of other to r.
func (r *Report) Append(other Report) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// HasErrors reports whether r holds any error diagnostic.
func (r *Report) HasErrors() bool {
	return len(r.Errors) > 0
}

// Err joins the error diagnostics, one per line, or returns nil.
func (r *Report) Err() error {
	errs := make([]error, len(r.Errors))
	for i, d := range r.Errors {
		errs[i] = errors.New(d.String())
	}

	return errors.Join(errs...)
}

// PrintWarnings writes one "warning: ..." line per warning diagnostic.
func (r *Report) PrintWarnings(w io.Writer) error {
	for _, d := range r.Warnings {
		if _, err := fmt.Fprintf(w, "%s: %s\n", d.Severity, d); err != nil {
			return err
		}
	}

	return nil
}
