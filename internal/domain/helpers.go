package domain

import (
	"cmp"
	"slices"
)

// Deref returns *p, or fallback when p is nil. Unset sort orders read as 0.
func Deref[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}

func IntPtr(v int) *int { return &v }

func sortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
