// Package profiles holds the built-in configuration schemas cfgsync can dump,
// check and apply files to. Their function fields are registered in the
// default callable registry at init.
package profiles

import (
	"errors"
	"fmt"
	"sort"

	"config-reconciler/callable"
)

// ErrUnknownProfile is returned by Lookup for an unregistered profile name.
var ErrUnknownProfile = errors.New("unknown profile")

var builtins = map[string]func() any{
	"pinhole_camera": func() any { return DefaultPinholeCamera() },
	"se3_keyboard":   func() any { return DefaultSe3Keyboard() },
}

func init() {
	callable.MustRegister(SpawnPinholeCamera, ResetCommand, ToggleGripper)
}

// Lookup returns a freshly built default configuration for the named
// profile, as a pointer to its struct.
func Lookup(name string) (any, error) {
	build, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %v)", ErrUnknownProfile, name, Names())
	}

	return build(), nil
}

// Names lists the built-in profiles, sorted.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
