package reconcile

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"config-reconciler/kind"
	"config-reconciler/plain"
)

// reservedPrefix marks mapping keys that are never serialized.
const reservedPrefix = "__"

// ToMap converts a struct, a pointer to one, or a generic mapping into a fresh
// plain.Map. Functions become "module:attribute" strings, nested structs and
// mappings become nested maps, sequences are copied element by element.
func ToMap(obj any, opts ...Option) (*plain.Map, error) {
	o := newOptions(opts)

	rv := reflect.ValueOf(obj)
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) && !rv.IsNil() {
		if rv.Type() == plainMapPtrType {
			break
		}

		rv = rv.Elem()
	}

	if k := kind.OfValue(rv); !k.Recurses() || isNilValue(rv) {
		return nil, &FieldError{
			Expected: "struct or mapping",
			Received: describe(obj),
			Err:      ErrInvalidInput,
		}
	}

	s := serializer{opts: o}

	return s.mapOf(addrOfPlainMap(rv), "")
}

type serializer struct {
	opts Options
}

// mapOf serializes a struct, a string-keyed map or a *plain.Map.
func (s *serializer) mapOf(rv reflect.Value, ns string) (*plain.Map, error) {
	out := plain.New()

	switch {
	case rv.Type() == plainMapPtrType:
		var err error
		rv.Interface().(*plain.Map).Range(func(k string, v any) bool {
			if strings.HasPrefix(k, reservedPrefix) {
				return true
			}

			var sv any

			sv, err = s.value(reflect.ValueOf(v), ns+"/"+k)
			if err != nil {
				return false
			}

			out.Set(k, sv)

			return true
		})

		return out, err

	case rv.Kind() == reflect.Map:
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

		for _, mk := range keys {
			k := mk.String()
			if strings.HasPrefix(k, reservedPrefix) {
				continue
			}

			sv, err := s.value(rv.MapIndex(mk), ns+"/"+k)
			if err != nil {
				return nil, err
			}

			out.Set(k, sv)
		}

		return out, nil

	default:
		for _, f := range structFields(rv.Type()) {
			sv, err := s.value(rv.FieldByIndex(f.index), ns+"/"+f.key)
			if err != nil {
				return nil, err
			}

			out.Set(f.key, sv)
		}

		return out, nil
	}
}

func (s *serializer) value(rv reflect.Value, ns string) (any, error) {
	for rv.IsValid() && rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}

	if !rv.IsValid() || isNilValue(rv) {
		return nil, nil
	}

	switch kind.OfValue(rv) {
	case kind.KindCallable:
		name, err := s.opts.Registry.Encode(rv.Interface())
		if err != nil {
			return nil, &FieldError{Path: ns, Key: lastKey(ns), Expected: "named function",
				Received: rv.Type().String(), Err: err}
		}

		return name, nil

	case kind.KindMapping, kind.KindNested:
		for rv.Kind() == reflect.Pointer && rv.Type() != plainMapPtrType {
			if rv.IsNil() {
				return nil, nil
			}

			rv = rv.Elem()
		}

		return s.mapOf(addrOfPlainMap(rv), ns)

	case kind.KindSequence:
		for rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				return nil, nil
			}

			rv = rv.Elem()
		}

		out := make([]any, rv.Len())
		for i := range out {
			ev, err := s.value(rv.Index(i), fmt.Sprintf("%s[%d]", ns, i))
			if err != nil {
				return nil, err
			}

			out[i] = ev
		}

		return out, nil

	default:
		for rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				return nil, nil
			}

			rv = rv.Elem()
		}

		return rv.Interface(), nil
	}
}

// addrOfPlainMap turns a plain.Map value into a *plain.Map so its methods are
// reachable. Other values are returned unchanged.
func addrOfPlainMap(rv reflect.Value) reflect.Value {
	if rv.Type() != plainMapType {
		return rv
	}

	if rv.CanAddr() {
		return rv.Addr()
	}

	p := reflect.New(plainMapType)
	p.Elem().Set(rv)

	return p
}

var (
	plainMapType    = reflect.TypeFor[plain.Map]()
	plainMapPtrType = reflect.TypeFor[*plain.Map]()
)

func isNilValue(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

func lastKey(ns string) string {
	if idx := strings.LastIndexByte(ns, '/'); idx >= 0 {
		return ns[idx+1:]
	}

	return ns
}
