package reconcile

import (
	"reflect"
	"strings"
)

// field is a visible configuration key of a struct type.
type field struct {
	key   string
	index []int
	depth int
}

// structFields lists the keys of t in declaration order. Untagged embedded
// structs (and yaml ",inline" fields) are flattened; on a key collision the
// shallower field wins.
func structFields(t reflect.Type) []field {
	var out []field

	pos := make(map[string]int)
	collectFields(t, nil, 0, &out, pos)

	return out
}

func collectFields(t reflect.Type, parent []int, depth int, out *[]field, pos map[string]int) {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		index := append(append([]int(nil), parent...), i)

		key, inline, skip := fieldKey(sf)
		if skip {
			continue
		}

		if inline {
			collectFields(sf.Type, index, depth+1, out, pos)
			continue
		}

		if at, exists := pos[key]; exists {
			if (*out)[at].depth > depth {
				(*out)[at] = field{key: key, index: index, depth: depth}
			}

			continue
		}

		pos[key] = len(*out)
		*out = append(*out, field{key: key, index: index, depth: depth})
	}
}

// fieldKey resolves the key of a struct field from its `cfg` tag, its `yaml`
// tag or its name.
func fieldKey(sf reflect.StructField) (key string, inline, skip bool) {
	cfgName, cfgSet := tagName(sf.Tag, "cfg")
	yamlName, yamlSet := tagName(sf.Tag, "yaml")

	if cfgName == "-" || (!cfgSet && yamlName == "-") {
		return "", false, true
	}

	named := (cfgSet && cfgName != "") || (yamlSet && yamlName != "")

	if sf.Anonymous && sf.Type.Kind() == reflect.Struct && !named {
		return "", true, false
	}

	if !sf.IsExported() {
		return "", false, true
	}

	if strings.Contains(sf.Tag.Get("yaml"), ",inline") && sf.Type.Kind() == reflect.Struct {
		return "", true, false
	}

	switch {
	case cfgSet && cfgName != "":
		return cfgName, false, false
	case yamlSet && yamlName != "":
		return yamlName, false, false
	default:
		return sf.Name, false, false
	}
}

func tagName(tag reflect.StructTag, name string) (string, bool) {
	v, ok := tag.Lookup(name)
	if !ok {
		return "", false
	}

	if idx := strings.IndexByte(v, ','); idx >= 0 {
		v = v[:idx]
	}

	return v, true
}

// fieldByKey returns the field of struct value v stored under key.
func fieldByKey(v reflect.Value, key string) (reflect.Value, bool) {
	for _, f := range structFields(v.Type()) {
		if f.key == key {
			return v.FieldByIndex(f.index), true
		}
	}

	return reflect.Value{}, false
}

func fieldKeys(t reflect.Type) []string {
	fields := structFields(t)

	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.key
	}

	return keys
}
