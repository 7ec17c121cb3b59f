// Package collection offers generic slice helpers in the style of a
// collections library.
package collection

// Map transforms each element of items with fn.
func Map[T, U any](items []T, fn func(T) U) []U {
	out := make([]U, len(items))
	for i, v := range items {
		out[i] = fn(v)
	}
	return out
}

// Filter returns the elements of items for which fn returns true.
func Filter[T any](items []T, fn func(T) bool) []T {
	var out []T
	for _, v := range items {
		if fn(v) {
			out = append(out, v)
		}
	}
	return out
}

// First returns the first element matching fn, or the zero value and false.
func First[T any](items []T, fn func(T) bool) (T, bool) {
	for _, v := range items {
		if fn(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Contains reports whether items includes target.
func Contains[T comparable](items []T, target T) bool {
	for _, v := range items {
		if v == target {
			return true
		}
	}
	return false
}

// Unique returns items with duplicates removed, preserving order.
func Unique[T comparable](items []T) []T {
	seen := make(map[T]struct{}, len(items))
	var out []T
	for _, v := range items {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// GroupBy buckets items by the key fn computes for each element.
func GroupBy[T any, K comparable](items []T, fn func(T) K) map[K][]T {
	out := map[K][]T{}
	for _, v := range items {
		k := fn(v)
		out[k] = append(out[k], v)
	}
	return out
}

// Sum adds up the values fn extracts from each element.
func Sum[T any, N int | int64 | float64](items []T, fn func(T) N) N {
	var total N
	for _, v := range items {
		total += fn(v)
	}
	return total
}
