package reconcile

import "config-reconciler/plain"

// MergeMaps overlays overlay onto base and returns base. When both sides hold
// a mapping under the same key they are merged recursively; any other value
// in overlay overwrites the one in base. No type checks are made.
// A nil base is replaced by a new map. Mappings taken from overlay are
// copied, so base never shares them with overlay.
func MergeMaps(base, overlay *plain.Map) *plain.Map {
	if base == nil {
		base = plain.New()
	}

	overlay.Range(func(key string, value any) bool {
		sub, ok := asMapping(value)
		if !ok {
			base.Set(key, value)
			return true
		}

		if cur, found := base.Get(key); found {
			if curMap, isMap := asMapping(cur); isMap {
				base.Set(key, MergeMaps(curMap, sub))
				return true
			}
		}

		base.Set(key, sub.Clone())

		return true
	})

	return base
}
