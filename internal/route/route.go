// Package route defines the RIB record shape: a prefix, a next-hop, and
// the four selection attributes the selector and aggregator both read.
package route

import (
	"fmt"

	"github.com/perrottam/networks-proj3/internal/addr"
)

// Origin is one of IGP, EGP, UNK, ordered by preference (IGP best).
type Origin int

const (
	UNK Origin = iota
	EGP
	IGP
)

func (o Origin) String() string {
	switch o {
	case IGP:
		return "IGP"
	case EGP:
		return "EGP"
	case UNK:
		return "UNK"
	default:
		return fmt.Sprintf("Origin(%d)", int(o))
	}
}

// ParseOrigin parses the three wire strings.
func ParseOrigin(s string) (Origin, error) {
	switch s {
	case "IGP":
		return IGP, nil
	case "EGP":
		return EGP, nil
	case "UNK":
		return UNK, nil
	default:
		return 0, fmt.Errorf("unknown origin %q", s)
	}
}

// Attributes are the four selection attributes carried on every route.
type Attributes struct {
	LocalPref  uint32
	SelfOrigin bool
	ASPath     []int
	Origin     Origin
}

// CloneASPath returns a copy of the AS-path, so appending the local AS
// on propagation never aliases a RIB entry's slice.
func (a Attributes) CloneASPath() []int {
	out := make([]int, len(a.ASPath))
	copy(out, a.ASPath)
	return out
}

// Entry is a single RIB record.
type Entry struct {
	Prefix     addr.Prefix
	NextHop    addr.Addr
	Attributes Attributes
}

// AttrEqual reports whether two entries are attribute-equal: same
// next-hop, localpref, mask length, AS-path, origin, and self-origin
// flag. Network address is deliberately excluded — that's what makes
// adjacent, attribute-equal entries mergeable.
func (e Entry) AttrEqual(other Entry) bool {
	if e.NextHop != other.NextHop {
		return false
	}
	if e.Attributes.LocalPref != other.Attributes.LocalPref {
		return false
	}
	if e.Prefix.Len() != other.Prefix.Len() {
		return false
	}
	if e.Attributes.SelfOrigin != other.Attributes.SelfOrigin {
		return false
	}
	if e.Attributes.Origin != other.Attributes.Origin {
		return false
	}
	return asPathEqual(e.Attributes.ASPath, other.Attributes.ASPath)
}

func asPathEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
