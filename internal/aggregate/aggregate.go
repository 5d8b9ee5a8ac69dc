// Package aggregate coalesces RIB entries into the shortest equivalent
// set of supernets: repeatedly merging adjacent, attribute-equal pairs
// until a fixed point is reached. A chain of three or more mergeable
// routes fully collapses, not just its first pair.
package aggregate

import (
	"github.com/perrottam/networks-proj3/internal/addr"
	"github.com/perrottam/networks-proj3/internal/route"
)

// Aggregate returns the coalesced view of entries: a list in which no
// two entries are both adjacent and attribute-equal. The result is a
// function of entries alone (same input, same insertion order ⇒ same
// output).
func Aggregate(entries []route.Entry) []route.Entry {
	current := make([]route.Entry, len(entries))
	copy(current, entries)

	for {
		merged, changed := mergeOnce(current)
		if !changed {
			return merged
		}
		current = merged
	}
}

// mergeOnce scans for the first attribute-equal, adjacent pair and
// folds it into one entry. It reports whether it found one.
func mergeOnce(entries []route.Entry) ([]route.Entry, bool) {
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			if !mergeable(entries[i], entries[j]) {
				continue
			}

			out := make([]route.Entry, 0, len(entries)-1)
			out = append(out, entries[:i]...)
			out = append(out, entries[i+1:j]...)
			out = append(out, entries[j+1:]...)
			out = append(out, merge(entries[i], entries[j]))

			return out, true
		}
	}

	return entries, false
}

func mergeable(a, b route.Entry) bool {
	return a.AttrEqual(b) && addr.Adjacent(a.Prefix, b.Prefix)
}

func merge(a, b route.Entry) route.Entry {
	return route.Entry{
		Prefix:     addr.Shorten(a.Prefix, b.Prefix),
		NextHop:    a.NextHop,
		Attributes: a.Attributes,
	}
}
