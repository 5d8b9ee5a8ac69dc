// Package selector implements the longest-prefix-match and tie-break
// cascade that picks, at most, one egress neighbor for a destination
// address.
package selector

import (
	"github.com/perrottam/networks-proj3/internal/addr"
	"github.com/perrottam/networks-proj3/internal/neighbor"
	"github.com/perrottam/networks-proj3/internal/route"
)

// Result is the outcome of Select.
type Result struct {
	// Entry is the winning route. Zero if Found is false.
	Entry route.Entry
	// Found is true iff the longest-prefix-match step produced a
	// nonempty set (steps 2-6 never empty a nonempty input, so Found
	// tracks LPM success, not the final policy decision).
	Found bool
	// Permitted is true iff Found is true and step 7's relationship
	// filter accepted the result. A data message should only be
	// forwarded when both Found and Permitted are true.
	Permitted bool
}

// Select runs the longest-prefix-match and tie-break cascade against
// table, given the ingress neighbor ingress and destination dst. It
// never mutates table.
func Select(table []route.Entry, neighbors *neighbor.Table, ingress addr.Addr, dst addr.Addr) Result {
	survivors := longestPrefixMatch(table, dst)
	if len(survivors) == 0 {
		return Result{}
	}

	survivors = highestLocalPref(survivors)
	survivors = selfOriginPreference(survivors)
	survivors = shortestASPath(survivors)
	survivors = originPreference(survivors)
	winner := lowestNextHop(survivors)

	result := Result{Entry: winner, Found: true}

	ingressRel, ingressKnown := neighbors.Relationship(ingress)
	egressRel, egressKnown := neighbors.Relationship(winner.NextHop)
	if !ingressKnown || !egressKnown {
		return result
	}

	result.Permitted = neighbor.AtLeastOneCustomer(ingressRel, egressRel)
	return result
}

func longestPrefixMatch(table []route.Entry, dst addr.Addr) []route.Entry {
	var matched []route.Entry
	best := -1

	for _, e := range table {
		if !e.Prefix.Matches(dst) {
			continue
		}
		if l := e.Prefix.Len(); l > best {
			best = l
		}
		matched = append(matched, e)
	}

	if best < 0 {
		return nil
	}

	out := make([]route.Entry, 0, len(matched))
	for _, e := range matched {
		if e.Prefix.Len() == best {
			out = append(out, e)
		}
	}
	return out
}

func highestLocalPref(entries []route.Entry) []route.Entry {
	return keepBest(entries, func(e route.Entry) uint32 { return e.Attributes.LocalPref }, gt[uint32])
}

func selfOriginPreference(entries []route.Entry) []route.Entry {
	var selfOrigin []route.Entry
	for _, e := range entries {
		if e.Attributes.SelfOrigin {
			selfOrigin = append(selfOrigin, e)
		}
	}
	if len(selfOrigin) > 0 {
		return selfOrigin
	}
	return entries
}

func shortestASPath(entries []route.Entry) []route.Entry {
	return keepBest(entries, func(e route.Entry) int { return len(e.Attributes.ASPath) }, lt[int])
}

func originPreference(entries []route.Entry) []route.Entry {
	return keepBest(entries, func(e route.Entry) route.Origin { return e.Attributes.Origin }, gt[route.Origin])
}

func lowestNextHop(entries []route.Entry) route.Entry {
	winner := entries[0]
	for _, e := range entries[1:] {
		if e.NextHop < winner.NextHop {
			winner = e
		}
	}
	return winner
}
