// Package callable maps functions to stable "module:attribute" names and back.
//
// Functions must be registered before a name can be decoded; decoding is a
// registry lookup, never a dynamic load. Names are derived from the runtime
// symbol of a package-level function, so
//
//	callable.MustRegister(profiles.ToggleGripper)
//
// registers "config-reconciler/internal/profiles:ToggleGripper". Closures and
// method values have no addressable name and must be registered explicitly
// with RegisterName.
package callable

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// Separator splits the module path from the attribute name.
const Separator = ":"

// Options control registry behavior.
type Options struct {
	// AllowReplace permits registering a name twice; the last value wins.
	AllowReplace bool
	// EncodeUnregistered lets Encode name package-level functions that were
	// never registered. Such names cannot be decoded by this registry.
	EncodeUnregistered bool
}

// Option modifies Options.
type Option func(*Options)

// WithAllowReplace allows re-registering an existing name.
func WithAllowReplace() Option { return func(o *Options) { o.AllowReplace = true } }

// WithEncodeUnregistered allows encoding functions that are not registered.
func WithEncodeUnregistered() Option { return func(o *Options) { o.EncodeUnregistered = true } }

// Registry resolves encoded callable names. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]map[string]any
	names   map[uintptr]string // code pointer -> explicit name
	opt     Options
	sealed  atomic.Bool
}

// Default is the process-wide registry used by the package-level helpers.
var Default = New()

// New creates an empty registry.
func New(opts ...Option) *Registry {
	var o Options
	for _, fn := range opts {
		fn(&o)
	}

	return &Registry{
		modules: make(map[string]map[string]any),
		names:   make(map[uintptr]string),
		opt:     o,
	}
}

// Seal prevents further registrations. Returns true if this call sealed it.
func (r *Registry) Seal() bool { return !r.sealed.Swap(true) }

// Sealed reports whether the registry rejects new registrations.
func (r *Registry) Sealed() bool { return r.sealed.Load() }

// Register adds a package-level function under its derived name.
func (r *Registry) Register(fn any) error {
	rv := reflect.ValueOf(fn)
	if !rv.IsValid() || rv.Kind() != reflect.Func || rv.IsNil() {
		return &Error{Op: "register", Input: fmt.Sprintf("%T", fn), Err: ErrNotCallable}
	}

	module, attr, err := symbolName(rv)
	if err != nil {
		return &Error{Op: "register", Input: fmt.Sprintf("%T", fn), Err: ErrEncoding, Cause: err}
	}

	return r.RegisterName(module, attr, fn)
}

// RegisterName adds v under module:attr. Any value may be registered; Decode
// rejects values that are not functions.
func (r *Registry) RegisterName(module, attr string, v any) error {
	name := module + Separator + attr
	if module == "" || attr == "" || strings.Contains(module, Separator) || strings.Contains(attr, Separator) {
		return &Error{Op: "register", Input: name, Err: ErrFormat}
	}

	if r.Sealed() {
		return &Error{Op: "register", Input: name, Err: ErrSealed}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	attrs, ok := r.modules[module]
	if !ok {
		attrs = make(map[string]any)
		r.modules[module] = attrs
	}

	if _, exists := attrs[attr]; exists && !r.opt.AllowReplace {
		return &Error{Op: "register", Input: name, Err: ErrDuplicate}
	}

	attrs[attr] = v

	if rv := reflect.ValueOf(v); rv.IsValid() && rv.Kind() == reflect.Func && !rv.IsNil() {
		r.names[rv.Pointer()] = name
	}

	return nil
}

// MustRegister panics on registration error. Useful from init() blocks.
func (r *Registry) MustRegister(fns ...any) {
	for _, fn := range fns {
		if err := r.Register(fn); err != nil {
			panic(err)
		}
	}
}

// Encode returns the "module:attribute" name of fn. Only registered functions
// can be encoded, so every name Encode returns decodes back to fn. Explicitly
// registered names take precedence over the derived symbol name.
func (r *Registry) Encode(fn any) (string, error) {
	rv := reflect.ValueOf(fn)
	if !rv.IsValid() || rv.Kind() != reflect.Func {
		return "", &Error{Op: "encode", Input: fmt.Sprintf("%T", fn), Err: ErrEncoding,
			Cause: errors.New("value is not a function")}
	}

	if rv.IsNil() {
		return "", &Error{Op: "encode", Input: rv.Type().String(), Err: ErrEncoding,
			Cause: errors.New("nil function")}
	}

	if name, ok := r.registeredName(rv); ok {
		return name, nil
	}

	module, attr, err := symbolName(rv)
	if err != nil {
		return "", &Error{Op: "encode", Input: rv.Type().String(), Err: ErrEncoding, Cause: err}
	}

	name := module + Separator + attr
	if !r.opt.EncodeUnregistered {
		return "", &Error{Op: "encode", Input: name, Err: ErrEncoding,
			Cause: errors.New("function is not registered")}
	}

	return name, nil
}

// registeredName returns the name fn is currently registered under.
func (r *Registry) registeredName(fn reflect.Value) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.names[fn.Pointer()]
	if !ok {
		return "", false
	}

	module, attr, _ := strings.Cut(name, Separator)

	cur := reflect.ValueOf(r.modules[module][attr])
	if !cur.IsValid() || cur.Kind() != reflect.Func || cur.Pointer() != fn.Pointer() {
		return "", false
	}

	return name, true
}

// Decode resolves a "module:attribute" name to the registered function.
func (r *Registry) Decode(name string) (any, error) {
	if n := strings.Count(name, Separator); n != 1 {
		return nil, &Error{Op: "decode", Input: name, Err: ErrFormat,
			Cause: fmt.Errorf("found %d separators", n)}
	}

	module, attr, _ := strings.Cut(name, Separator)
	if module == "" || attr == "" {
		return nil, &Error{Op: "decode", Input: name, Err: ErrFormat,
			Cause: errors.New("empty module or attribute")}
	}

	r.mu.RLock()
	attrs, known := r.modules[module]
	v, found := attrs[attr]
	r.mu.RUnlock()

	switch {
	case !known:
		return nil, &Error{Op: "decode", Input: name, Err: ErrResolution,
			Cause: fmt.Errorf("module %q is not registered", module)}
	case !found:
		return nil, &Error{Op: "decode", Input: name, Err: ErrResolution,
			Cause: fmt.Errorf("module %q has no attribute %q", module, attr)}
	}

	if rv := reflect.ValueOf(v); !rv.IsValid() || rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, &Error{Op: "decode", Input: name, Err: ErrNotCallable,
			Cause: fmt.Errorf("resolved %T", v)}
	}

	return v, nil
}

// Resolve accepts either a function, returned as is, or an encoded name,
// which is decoded.
func (r *Registry) Resolve(v any) (any, error) {
	if s, ok := v.(string); ok {
		return r.Decode(s)
	}

	if rv := reflect.ValueOf(v); rv.IsValid() && rv.Kind() == reflect.Func && !rv.IsNil() {
		return v, nil
	}

	return nil, &Error{Op: "resolve", Input: fmt.Sprintf("%T", v), Err: ErrNotCallable,
		Cause: errors.New("expected a function or an encoded name")}
}

// Names returns every registered name, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	for module, attrs := range r.modules {
		for attr := range attrs {
			out = append(out, module+Separator+attr)
		}
	}

	sort.Strings(out)

	return out
}

// symbolName splits the runtime symbol of a function into its package path
// and identifier. Anonymous functions, closures, method values and generic
// instantiations are rejected.
func symbolName(fn reflect.Value) (module, attr string, err error) {
	f := runtime.FuncForPC(fn.Pointer())
	if f == nil {
		return "", "", errors.New("no symbol for function")
	}

	full := f.Name()

	slash := strings.LastIndex(full, "/")
	dot := strings.Index(full[slash+1:], ".")
	if dot < 0 {
		return "", "", fmt.Errorf("symbol %q has no package qualifier", full)
	}

	module, attr = full[:slash+1+dot], full[slash+1+dot+1:]
	if attr == "" || strings.ContainsAny(attr, ".()[]-") {
		return "", "", fmt.Errorf("symbol %q is not a package-level function", full)
	}

	// the linker escapes dots in the last path element, e.g. yaml%2ev3
	if unescaped, uerr := url.PathUnescape(module); uerr == nil {
		module = unescaped
	}

	return module, attr, nil
}

// Register adds fn to the Default registry.
func Register(fn any) error { return Default.Register(fn) }

// RegisterName adds v to the Default registry under module:attr.
func RegisterName(module, attr string, v any) error { return Default.RegisterName(module, attr, v) }

// MustRegister adds fns to the Default registry and panics on error.
func MustRegister(fns ...any) { Default.MustRegister(fns...) }

// Encode encodes fn using the Default registry.
func Encode(fn any) (string, error) { return Default.Encode(fn) }

// Decode decodes name using the Default registry.
func Decode(name string) (any, error) { return Default.Decode(name) }
