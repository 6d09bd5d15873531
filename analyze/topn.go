package analyze

import "sort"

// TopN returns the top n elements of items ranked by less (a strict
// "a ranks above b" predicate, as in sort.Slice). Ties are broken by
// original order since sort.SliceStable is used. n <= 0 or n > len(items)
// returns the full sorted slice. The input slice is not modified.
func TopN[T any](items []T, n int, less func(a, b T) bool) []T {
	ranked := make([]T, len(items))
	copy(ranked, items)

	sort.SliceStable(ranked, func(i, j int) bool {
		return less(ranked[i], ranked[j])
	})

	if n <= 0 || n > len(ranked) {
		return ranked
	}

	return ranked[:n]
}
