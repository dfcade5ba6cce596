package domain

import (
	"maps"
	"slices"
)

// ErrorMap maps a field name, or a section name for non-field errors, to an
// ordered list of messages.
type ErrorMap map[string][]string

// Clone deep-copies the map.
func (m ErrorMap) Clone() ErrorMap {
	out := make(ErrorMap, len(m))
	for k, v := range m {
		out[k] = slices.Clone(v)
	}
	return out
}

// Keys returns the map's keys in sorted order.
func (m ErrorMap) Keys() []string {
	return slices.Sorted(maps.Keys(m))
}

// Has reports whether the field has at least one message.
func (m ErrorMap) Has(field string) bool {
	return len(m[field]) > 0
}
