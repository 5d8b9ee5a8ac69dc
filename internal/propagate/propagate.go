// Package propagate computes who must be told about an inbound update
// or revoke, and what the outbound message body looks like, following
// the minimal Gao-Rexford commercial policy: export to a peer or
// provider only what was learned from a customer.
package propagate

import (
	"github.com/perrottam/networks-proj3/internal/addr"
	"github.com/perrottam/networks-proj3/internal/neighbor"
	"github.com/perrottam/networks-proj3/internal/route"
)

// Targets returns the neighbors (other than from) that should be told
// about a change learned from the neighbor from, under the export
// policy: export to a peer or provider only what was learned from a
// customer.
func Targets(neighbors *neighbor.Table, from addr.Addr) []addr.Addr {
	fromRel, ok := neighbors.Relationship(from)
	if !ok {
		return nil
	}

	var out []addr.Addr
	for _, n := range neighbors.Handles() {
		if n == from {
			continue
		}

		rel, _ := neighbors.Relationship(n)
		if neighbor.AtLeastOneCustomer(fromRel, rel) {
			out = append(out, n)
		}
	}
	return out
}

// UpdateAttributes returns the attributes to announce outward for an
// inbound update carrying attrs, with localAS appended to the AS-path.
// It never mutates attrs.ASPath.
func UpdateAttributes(attrs route.Attributes, localAS int) route.Attributes {
	out := attrs
	out.ASPath = append(attrs.CloneASPath(), localAS)
	return out
}

// RevokeWithdrawn returns the withdrawn prefixes to announce outward
// for an inbound revoke listing withdrawn. Revoke bodies are passed
// through unmodified — the AS-path is never touched on a revoke path.
func RevokeWithdrawn(withdrawn []addr.Prefix) []addr.Prefix {
	out := make([]addr.Prefix, len(withdrawn))
	copy(out, withdrawn)
	return out
}
