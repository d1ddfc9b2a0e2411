package reconcile

import (
	"fmt"
	"reflect"
	"sort"

	"config-reconciler/internal/match"
	"config-reconciler/kind"
	"config-reconciler/plain"
)

// Merge updates the struct pointed to by obj with data, in place.
// It stops at the first failure; fields assigned before it stay assigned.
func Merge(obj any, data *plain.Map, opts ...Option) error {
	rv, err := target(obj)
	if err != nil {
		return err
	}

	w := &walker{opts: newOptions(opts), apply: true}

	return w.mergeStruct(rv, data, "")
}

// Check validates data against obj with the rules of Merge without modifying
// obj, and returns every failure found instead of only the first.
func Check(obj any, data *plain.Map, opts ...Option) []error {
	rv, err := target(obj)
	if err != nil {
		return []error{err}
	}

	w := &walker{opts: newOptions(opts), collect: true}
	_ = w.mergeStruct(rv, data, "")

	return w.errs
}

func target(obj any) (reflect.Value, error) {
	rv := reflect.ValueOf(obj)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, &FieldError{
			Expected: "non-nil pointer to struct",
			Received: describe(obj),
			Err:      ErrInvalidInput,
		}
	}

	return rv.Elem(), nil
}

// walker carries one Merge or Check call. With apply unset nothing is
// assigned; with collect set failures are recorded and the walk continues.
type walker struct {
	opts    Options
	apply   bool
	collect bool
	errs    []error
}

func (w *walker) fail(err error) error {
	if w.collect {
		w.errs = append(w.errs, err)
		return nil
	}

	return err
}

func (w *walker) set(dst, v reflect.Value, ns string) {
	if !w.apply {
		return
	}

	dst.Set(v)
	w.opts.Logger.Debug("config field updated", "namespace", ns, "type", v.Type().String())
}

func (w *walker) mergeStruct(obj reflect.Value, data *plain.Map, ns string) error {
	for _, key := range data.Keys() {
		value, _ := data.Get(key)
		keyNS := ns + "/" + key

		fv, ok := fieldByKey(obj, key)
		if !ok {
			err := &FieldError{
				Path:        keyNS,
				Key:         key,
				Suggestions: match.Suggest(key, fieldKeys(obj.Type()), match.DefaultThreshold, 3),
				Err:         ErrUnknownKey,
			}
			if ferr := w.fail(err); ferr != nil {
				return ferr
			}

			continue
		}

		if err := w.mergeField(fv, value, keyNS, key); err != nil {
			return err
		}
	}

	return nil
}

func (w *walker) mergeField(fv reflect.Value, value any, ns, key string) error {
	t := fv.Type()

	if value == nil {
		if nilable(t) {
			w.set(fv, reflect.Zero(t), ns)
			return nil
		}

		return w.fail(mismatch(ns, key, t, value))
	}

	// interface fields follow the rules of the value they hold
	if t.Kind() == reflect.Interface {
		if fv.IsNil() {
			return w.assignAbsent(fv, value, ns, key)
		}

		tmp := reflect.New(fv.Elem().Type()).Elem()
		tmp.Set(fv.Elem())

		err := w.mergeField(tmp, value, ns, key)
		if w.apply {
			fv.Set(tmp)
		}

		return err
	}

	if t.Kind() == reflect.Pointer && t != plainMapPtrType && kind.OfType(t) != kind.KindNested {
		return w.mergePointer(fv, value, ns, key)
	}

	switch {
	case kind.OfType(t) == kind.KindMapping:
		return w.replaceMapping(fv, value, ns, key)

	case isMapping(value):
		return w.mergeNested(fv, value, ns, key)

	case kind.Of(value) == kind.KindSequence:
		return w.replaceSequence(fv, value, ns, key)

	case kind.OfType(t) == kind.KindCallable:
		return w.assignCallable(fv, value, ns, key)

	case reflect.TypeOf(value) == t:
		w.set(fv, reflect.ValueOf(value), ns)
		return nil

	default:
		return w.fail(mismatch(ns, key, t, value))
	}
}

// assignAbsent stores value in a nil interface field as is.
func (w *walker) assignAbsent(fv reflect.Value, value any, ns, key string) error {
	rv := reflect.ValueOf(value)
	if !rv.Type().AssignableTo(fv.Type()) {
		return w.fail(mismatch(ns, key, fv.Type(), value))
	}

	w.set(fv, rv, ns)

	return nil
}

// mergePointer applies value to the element of a pointer to a non-struct and
// stores a fresh pointer, leaving the previous pointee untouched.
func (w *walker) mergePointer(fv reflect.Value, value any, ns, key string) error {
	elem := reflect.New(fv.Type().Elem()).Elem()
	if !fv.IsNil() {
		elem.Set(fv.Elem())
	}

	if err := w.mergeField(elem, value, ns, key); err != nil {
		return err
	}

	p := reflect.New(elem.Type())
	p.Elem().Set(elem)
	w.set(fv, p, ns)

	return nil
}

// replaceMapping swaps a generic mapping field for the incoming one. Nested
// mappings below it are stored, not merged.
func (w *walker) replaceMapping(fv reflect.Value, value any, ns, key string) error {
	m, ok := asMapping(value)
	if !ok {
		return w.fail(mismatch(ns, key, fv.Type(), value))
	}

	if t := fv.Type(); t == plainMapPtrType || t == plainMapType {
		current, _ := asMapping(fv.Interface())
		w.dropped(ns, current.Keys(), m)

		out := plain.New()
		for _, k := range m.Keys() {
			v, _ := m.Get(k)

			if cur, found := current.Get(k); found && kind.Of(cur) == kind.KindCallable {
				fn, err := w.opts.Registry.Resolve(v)
				if err != nil {
					if ferr := w.fail(callableErr(ns+"/"+k, k, cur, v, err)); ferr != nil {
						return ferr
					}

					continue
				}

				v = fn
			}

			out.Set(k, v)
		}

		if t == plainMapType {
			w.set(fv, reflect.ValueOf(*out), ns)
		} else {
			w.set(fv, reflect.ValueOf(out), ns)
		}

		return nil
	}

	t := fv.Type()
	out := reflect.MakeMapWithSize(t, m.Len())

	if !fv.IsNil() {
		keys := make([]string, 0, fv.Len())
		for _, k := range fv.MapKeys() {
			keys = append(keys, k.String())
		}

		sort.Strings(keys)
		w.dropped(ns, keys, m)
	}

	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		entryNS := ns + "/" + k
		mk := reflect.ValueOf(k).Convert(t.Key())

		if !fv.IsNil() {
			if cur := fv.MapIndex(mk); cur.IsValid() && kind.OfValue(cur) == kind.KindCallable {
				fn, err := w.opts.Registry.Resolve(v)
				if err != nil {
					if ferr := w.fail(callableErr(entryNS, k, cur.Interface(), v, err)); ferr != nil {
						return ferr
					}

					continue
				}

				v = fn
			}
		}

		elem := reflect.New(t.Elem()).Elem()
		if err := w.mergeField(elem, v, entryNS, k); err != nil {
			return err
		}

		out.SetMapIndex(mk, elem)
	}

	w.set(fv, out, ns)

	return nil
}

// dropped reports the current keys of a mapping field that the incoming
// mapping m does not carry.
func (w *walker) dropped(ns string, current []string, m *plain.Map) {
	var lost []string
	for _, k := range current {
		if !m.Has(k) {
			lost = append(lost, k)
		}
	}

	if len(lost) == 0 {
		return
	}

	if w.apply {
		w.opts.Logger.Debug("mapping keys dropped", "namespace", ns, "keys", lost)
	}

	if w.opts.Dropped != nil {
		w.opts.Dropped(ns, lost)
	}
}

// mergeNested recurses into a struct field, allocating nil struct pointers.
func (w *walker) mergeNested(fv reflect.Value, value any, ns, key string) error {
	m, _ := asMapping(value)

	switch {
	case fv.Kind() == reflect.Struct:
		return w.mergeStruct(fv, m, ns)

	case fv.Kind() == reflect.Pointer && fv.Type().Elem().Kind() == reflect.Struct:
		if fv.IsNil() {
			fresh := reflect.New(fv.Type().Elem())
			w.set(fv, fresh, ns)

			if !w.apply {
				return w.mergeStruct(fresh.Elem(), m, ns)
			}
		}

		return w.mergeStruct(fv.Elem(), m, ns)

	default:
		return w.fail(mismatch(ns, key, fv.Type(), value))
	}
}

// replaceSequence swaps a slice or array field for the incoming sequence.
// Elements are converted one by one into the field's element type.
func (w *walker) replaceSequence(fv reflect.Value, value any, ns, key string) error {
	t := fv.Type()
	src := reflect.ValueOf(value)

	if t.Kind() != reflect.Slice && t.Kind() != reflect.Array {
		return w.fail(mismatch(ns, key, t, value))
	}

	expected := fv.Len()
	if (t.Kind() == reflect.Array || expected > 0) && expected != src.Len() {
		return w.fail(&FieldError{
			Path:     ns,
			Key:      key,
			Expected: fmt.Sprint(expected),
			Received: fmt.Sprint(src.Len()),
			Err:      ErrLengthMismatch,
		})
	}

	var out reflect.Value
	if t.Kind() == reflect.Array {
		out = reflect.New(t).Elem()
	} else {
		out = reflect.MakeSlice(t, src.Len(), src.Len())
	}

	for i := 0; i < src.Len(); i++ {
		elem := reflect.New(t.Elem()).Elem()
		if err := w.mergeField(elem, src.Index(i).Interface(), fmt.Sprintf("%s[%d]", ns, i), key); err != nil {
			return err
		}

		out.Index(i).Set(elem)
	}

	w.set(fv, out, ns)

	return nil
}

// assignCallable resolves an encoded name, or accepts a function, for a
// function-typed field.
func (w *walker) assignCallable(fv reflect.Value, value any, ns, key string) error {
	fn, err := w.opts.Registry.Resolve(value)
	if err != nil {
		return w.fail(callableErr(ns, key, fv.Interface(), value, err))
	}

	rv := reflect.ValueOf(fn)
	if !rv.Type().AssignableTo(fv.Type()) {
		return w.fail(mismatch(ns, key, fv.Type(), fn))
	}

	w.set(fv, rv, ns)

	return nil
}

func mismatch(ns, key string, expected reflect.Type, received any) *FieldError {
	return &FieldError{
		Path:     ns,
		Key:      key,
		Expected: expected.String(),
		Received: describe(received),
		Err:      ErrTypeMismatch,
	}
}

func callableErr(ns, key string, current, received any, err error) *FieldError {
	return &FieldError{
		Path:     ns,
		Key:      key,
		Expected: describe(current),
		Received: describe(received),
		Err:      err,
	}
}

func isMapping(v any) bool {
	_, ok := asMapping(v)
	return ok
}

// asMapping accepts the mapping shapes a decoder may hand over.
func asMapping(v any) (*plain.Map, bool) {
	switch tv := v.(type) {
	case *plain.Map:
		return tv, tv != nil
	case plain.Map:
		return &tv, true
	case map[string]any:
		return plain.FromStd(tv), true
	default:
		return nil, false
	}
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface:
		return true
	default:
		return false
	}
}
