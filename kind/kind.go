package kind

import (
	"encoding"
	"reflect"
	"time"

	"config-reconciler/plain"
)

//go:generate go tool stringer -type=Kind -output=kind_string.go

// Kind is the structural class of a configuration value.
type Kind int

const (
	_ Kind = iota // skip zero value, use it as a default (invalid) value for Kind

	KindScalar
	KindSequence
	KindMapping
	KindCallable
	KindNested

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

// Recurses reports whether values of this kind are walked field by field.
func (k Kind) Recurses() bool {
	return k == KindMapping || k == KindNested
}

var (
	timeType          = reflect.TypeFor[time.Time]()
	plainMapType      = reflect.TypeFor[plain.Map]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// Of classifies v. A nil value is a scalar.
func Of(v any) Kind {
	return OfValue(reflect.ValueOf(v))
}

// OfValue classifies rv by its dynamic type. Interfaces are unwrapped, so a
// field declared as any holding a func is a callable.
func OfValue(rv reflect.Value) Kind {
	for rv.IsValid() && rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}

	if !rv.IsValid() {
		return KindScalar
	}

	return OfType(rv.Type())
}

// OfType classifies a static type. Priority order:
//  1. functions are callables
//  2. plain.Map and maps with string keys are mappings, structs are nested objects
//  3. slices and arrays are sequences
//  4. everything else is a scalar
//
// Pointers classify as their element. Structs that marshal to text (time.Time
// among them) are scalars.
func OfType(t reflect.Type) Kind {
	if t == nil {
		return KindScalar
	}

	switch t.Kind() {
	default:
		return KindScalar

	case reflect.Func:
		return KindCallable

	case reflect.Pointer:
		return OfType(t.Elem())

	case reflect.Map:
		if t.Key().Kind() == reflect.String {
			return KindMapping
		}

		return KindScalar

	case reflect.Struct:
		switch {
		case t == plainMapType:
			return KindMapping
		case t == timeType,
			t.Implements(textMarshalerType),
			reflect.PointerTo(t).Implements(textMarshalerType):
			return KindScalar
		}

		return KindNested

	case reflect.Slice, reflect.Array:
		return KindSequence
	}
}
