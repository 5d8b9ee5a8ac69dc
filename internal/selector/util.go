package selector

import "golang.org/x/exp/constraints"

// keepBest filters entries down to those whose key is extremal under
// better, the same min/max-by-comparator shape this codebase already
// uses for its generic numeric helpers.
func keepBest[T any, K constraints.Ordered](entries []T, key func(T) K, better func(a, b K) bool) []T {
	best := key(entries[0])
	for _, e := range entries[1:] {
		if k := key(e); better(k, best) {
			best = k
		}
	}

	out := make([]T, 0, len(entries))
	for _, e := range entries {
		if key(e) == best {
			out = append(out, e)
		}
	}
	return out
}

func gt[K constraints.Ordered](a, b K) bool { return a > b }
func lt[K constraints.Ordered](a, b K) bool { return a < b }
