// Package ordering provides the stable, key-parameterized sort used for
// group labels, record identifiers and finish durations alike.
package ordering

import (
	"cmp"
	"slices"
)

// SortBy returns a copy of items in ascending order of key. Elements with
// equal keys keep their relative input order.
func SortBy[T any, K cmp.Ordered](items []T, key func(T) K) []T {
	return SortFunc(items, func(a, b T) int {
		return cmp.Compare(key(a), key(b))
	})
}

// SortFunc returns a copy of items ordered by compare, stable on ties.
// compare follows the cmp.Compare convention.
func SortFunc[T any](items []T, compare func(a, b T) int) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, compare)
	return out
}

// Identity is the key function for sorting values by themselves.
func Identity[T cmp.Ordered](v T) T { return v }
