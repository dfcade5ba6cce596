package domain

import (
	"maps"
	"slices"
)

// TouchedFields tracks which fields were edited during a form session. It is
// only consulted to decide whether leaving the form needs a confirmation.
type TouchedFields struct {
	names map[string]struct{}
}

func NewTouchedFields(names ...string) *TouchedFields {
	t := &TouchedFields{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		t.names[n] = struct{}{}
	}
	return t
}

func (t *TouchedFields) Add(name string) {
	if t.names == nil {
		t.names = map[string]struct{}{}
	}
	t.names[name] = struct{}{}
}

func (t *TouchedFields) Has(name string) bool {
	_, ok := t.names[name]
	return ok
}

func (t *TouchedFields) Len() int {
	return len(t.names)
}

func (t *TouchedFields) Clear() {
	t.names = map[string]struct{}{}
}

// Names returns the touched field names in sorted order.
func (t *TouchedFields) Names() []string {
	return slices.Sorted(maps.Keys(t.names))
}
