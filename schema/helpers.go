package schema

import (
	"cmp"
	"maps"
	"slices"
)

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	return slices.Sorted(maps.Keys(m))
}

// IntPtr returns a pointer to v. Used for optional match percentages.
func IntPtr(v int) *int {
	return &v
}
