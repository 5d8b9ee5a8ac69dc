// Package neighbor holds the fixed neighbor-to-relationship table the
// rest of the router consults. The table is built once at startup from
// the ordered token list and never mutated afterward.
package neighbor

import (
	"fmt"
	"strings"

	"github.com/perrottam/networks-proj3/internal/addr"
)

// Relationship is one of the three Gao-Rexford commercial relationships.
// Modeled as an enum past the boundary parser, never as a bare string.
type Relationship int

const (
	Customer Relationship = iota
	Peer
	Provider
)

func (r Relationship) String() string {
	switch r {
	case Customer:
		return "cust"
	case Peer:
		return "peer"
	case Provider:
		return "prov"
	default:
		return fmt.Sprintf("Relationship(%d)", int(r))
	}
}

// ParseRelationship parses the three accepted tokens: cust, peer, prov.
func ParseRelationship(s string) (Relationship, error) {
	switch s {
	case "cust":
		return Customer, nil
	case "peer":
		return Peer, nil
	case "prov":
		return Provider, nil
	default:
		return 0, fmt.Errorf("unknown relationship %q", s)
	}
}

// Neighbor is a directly connected AS, identified by the address used to
// reach it.
type Neighbor struct {
	Handle       addr.Addr
	Relationship Relationship
}

// ParseToken parses a single "<address>-<relationship>" startup token,
// e.g. "192.168.0.2-cust".
func ParseToken(tok string) (Neighbor, error) {
	i := strings.LastIndexByte(tok, '-')
	if i < 0 {
		return Neighbor{}, fmt.Errorf("malformed neighbor token %q: want <address>-<relationship>", tok)
	}

	a, err := addr.Parse(tok[:i])
	if err != nil {
		return Neighbor{}, fmt.Errorf("malformed neighbor token %q: %w", tok, err)
	}

	rel, err := ParseRelationship(tok[i+1:])
	if err != nil {
		return Neighbor{}, fmt.Errorf("malformed neighbor token %q: %w", tok, err)
	}

	return Neighbor{Handle: a, Relationship: rel}, nil
}

// Table is the fixed mapping from neighbor handle to relationship.
type Table struct {
	byHandle map[addr.Addr]Relationship
	order    []addr.Addr
}

// NewTable builds a Table from a list of neighbors. It is an error for
// the same handle to appear twice.
func NewTable(neighbors []Neighbor) (*Table, error) {
	t := &Table{byHandle: make(map[addr.Addr]Relationship, len(neighbors))}

	for _, n := range neighbors {
		if _, ok := t.byHandle[n.Handle]; ok {
			return nil, fmt.Errorf("duplicate neighbor %s", n.Handle)
		}
		t.byHandle[n.Handle] = n.Relationship
		t.order = append(t.order, n.Handle)
	}

	return t, nil
}

// ParseTokens parses an ordered list of startup tokens into a Table.
func ParseTokens(tokens []string) (*Table, error) {
	neighbors := make([]Neighbor, len(tokens))
	for i, tok := range tokens {
		n, err := ParseToken(tok)
		if err != nil {
			return nil, err
		}
		neighbors[i] = n
	}
	return NewTable(neighbors)
}

// Relationship looks up a's relationship. ok is false if a is not a
// known neighbor.
func (t *Table) Relationship(a addr.Addr) (Relationship, bool) {
	rel, ok := t.byHandle[a]
	return rel, ok
}

// Known reports whether a is a configured neighbor.
func (t *Table) Known(a addr.Addr) bool {
	_, ok := t.byHandle[a]
	return ok
}

// Handles returns the neighbor handles in the order they were
// configured.
func (t *Table) Handles() []addr.Addr {
	out := make([]addr.Addr, len(t.order))
	copy(out, t.order)
	return out
}

// Len returns the number of configured neighbors.
func (t *Table) Len() int {
	return len(t.order)
}

// AtLeastOneCustomer reports whether either of two relationships is
// Customer — the single policy primitive every filter in this package
// is built on.
func AtLeastOneCustomer(a, b Relationship) bool {
	return a == Customer || b == Customer
}
