// Package reconcile converts configuration structs to plain mappings and
// merges plain mappings back into live configuration structs.
//
// The struct being merged into is the schema of record: for every key in the
// incoming mapping, the expected shape is inferred from the current value of
// the matching field. The rules, in order:
//
//  1. A key without a matching field fails with ErrUnknownKey.
//  2. A field holding a generic mapping (map[string]V or *plain.Map) is
//     replaced wholesale. Entries whose current value is a function are
//     decoded from their "module:attribute" name first. Keys missing from the
//     incoming mapping are dropped, not preserved, and nested mappings inside
//     it are not merged further.
//  3. An incoming mapping on a struct field is merged recursively.
//  4. An incoming sequence replaces the field wholesale. A non-empty current
//     slice, and any array, must match its length or ErrLengthMismatch is
//     returned.
//  5. A function field is resolved through the callable registry.
//  6. Otherwise the incoming value must have exactly the field's type, or
//     ErrTypeMismatch is returned.
//
// A nil incoming value resets pointer, map, slice, func and interface fields
// to their zero value. A nil struct pointer receiving a mapping is allocated.
//
// Merge is not transactional: fields assigned before a failure keep their new
// values. Check runs the same rules without mutating anything and reports
// every failure.
//
// Field keys come from the `cfg` tag, then the `yaml` tag, then the Go field
// name. Unexported fields and fields tagged `cfg:"-"` are never visited.
package reconcile
