// Package message decodes and encodes the JSON envelope exchanged with
// neighbors: a tagged variant over six types. Decoding rejects unknown
// tags up front, before any handler sees the message.
package message

import (
	"encoding/json"
	"fmt"

	"github.com/perrottam/networks-proj3/internal/addr"
	"github.com/perrottam/networks-proj3/internal/route"
)

// Type is the envelope's "type" tag.
type Type string

const (
	Update  Type = "update"
	Revoke  Type = "revoke"
	Data    Type = "data"
	NoRoute Type = "no route"
	Dump    Type = "dump"
	Table   Type = "table"
)

// UnknownTypeError reports a type tag the dispatcher doesn't recognize.
type UnknownTypeError struct {
	Type string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown message type %q", e.Type)
}

// wireEnvelope is the raw JSON shape: src/dst are dotted-quad strings,
// msg is deferred decoding until the type tag is known.
type wireEnvelope struct {
	Src  string          `json:"src"`
	Dst  string          `json:"dst"`
	Type Type            `json:"type"`
	Msg  json.RawMessage `json:"msg"`
}

// Envelope is a decoded inbound or outbound message. Body holds one of
// UpdateBody, RevokeBody, DataBody, NoRouteBody, DumpBody, or TableBody
// depending on Type.
type Envelope struct {
	Src  addr.Addr
	Dst  addr.Addr
	Type Type
	Body any
}

// UpdateBody is the msg body of an update message.
type UpdateBody struct {
	Network    string `json:"network"`
	Netmask    string `json:"netmask"`
	LocalPref  uint32 `json:"localpref"`
	ASPath     []int  `json:"ASPath"`
	Origin     string `json:"origin"`
	SelfOrigin bool   `json:"selfOrigin"`
}

// WithdrawnRoute is one element of a revoke message's body.
type WithdrawnRoute struct {
	Network string `json:"network"`
	Netmask string `json:"netmask"`
}

// RevokeBody is the msg body of a revoke message.
type RevokeBody []WithdrawnRoute

// DataBody is an opaque payload, forwarded verbatim.
type DataBody json.RawMessage

// MarshalJSON passes the raw payload through unchanged.
func (d DataBody) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("null"), nil
	}
	return d, nil
}

// UnmarshalJSON stores the raw payload unchanged.
func (d *DataBody) UnmarshalJSON(b []byte) error {
	*d = append((*d)[:0], b...)
	return nil
}

// NoRouteBody is always an empty object.
type NoRouteBody struct{}

// DumpBody is always an empty object.
type DumpBody struct{}

// TableEntry is one element of a table message's body.
type TableEntry struct {
	Network string `json:"network"`
	Netmask string `json:"netmask"`
	Peer    string `json:"peer"`
}

// TableBody is the msg body of a table message.
type TableBody []TableEntry

// Decode parses a raw JSON envelope, dispatching the msg body by type.
// Unknown tags fail immediately with UnknownTypeError.
func Decode(b []byte) (Envelope, error) {
	var w wireEnvelope
	if err := json.Unmarshal(b, &w); err != nil {
		return Envelope{}, fmt.Errorf("decoding envelope: %w", err)
	}

	src, err := addr.Parse(w.Src)
	if err != nil {
		return Envelope{}, fmt.Errorf("decoding envelope src: %w", err)
	}

	dst, err := addr.Parse(w.Dst)
	if err != nil {
		return Envelope{}, fmt.Errorf("decoding envelope dst: %w", err)
	}

	env := Envelope{Src: src, Dst: dst, Type: w.Type}

	switch w.Type {
	case Update:
		var body UpdateBody
		if err := json.Unmarshal(w.Msg, &body); err != nil {
			return Envelope{}, fmt.Errorf("decoding update body: %w", err)
		}
		env.Body = body
	case Revoke:
		var body RevokeBody
		if err := json.Unmarshal(w.Msg, &body); err != nil {
			return Envelope{}, fmt.Errorf("decoding revoke body: %w", err)
		}
		env.Body = body
	case Data:
		env.Body = DataBody(append([]byte(nil), w.Msg...))
	case NoRoute:
		env.Body = NoRouteBody{}
	case Dump:
		env.Body = DumpBody{}
	case Table:
		var body TableBody
		if err := json.Unmarshal(w.Msg, &body); err != nil {
			return Envelope{}, fmt.Errorf("decoding table body: %w", err)
		}
		env.Body = body
	default:
		return Envelope{}, &UnknownTypeError{Type: string(w.Type)}
	}

	return env, nil
}

// Encode serializes an Envelope back to the wire JSON shape.
func Encode(env Envelope) ([]byte, error) {
	msg, err := json.Marshal(env.Body)
	if err != nil {
		return nil, fmt.Errorf("encoding %s body: %w", env.Type, err)
	}

	return json.Marshal(wireEnvelope{
		Src:  env.Src.String(),
		Dst:  env.Dst.String(),
		Type: env.Type,
		Msg:  msg,
	})
}

// AttributesFromUpdate converts a wire update body into the internal
// attribute representation.
func AttributesFromUpdate(b UpdateBody) (route.Attributes, addr.Prefix, error) {
	network, err := addr.Parse(b.Network)
	if err != nil {
		return route.Attributes{}, addr.Prefix{}, fmt.Errorf("update network: %w", err)
	}

	mask, err := addr.ParseMask(b.Netmask)
	if err != nil {
		return route.Attributes{}, addr.Prefix{}, fmt.Errorf("update netmask: %w", err)
	}

	origin, err := route.ParseOrigin(b.Origin)
	if err != nil {
		return route.Attributes{}, addr.Prefix{}, fmt.Errorf("update origin: %w", err)
	}

	asPath := make([]int, len(b.ASPath))
	copy(asPath, b.ASPath)

	attrs := route.Attributes{
		LocalPref:  b.LocalPref,
		SelfOrigin: b.SelfOrigin,
		ASPath:     asPath,
		Origin:     origin,
	}

	return attrs, addr.Prefix{Network: network, Mask: mask}, nil
}

// UpdateFromAttributes converts the internal representation back into a
// wire update body, e.g. for re-serializing a propagated update.
func UpdateFromAttributes(prefix addr.Prefix, attrs route.Attributes) UpdateBody {
	return UpdateBody{
		Network:    prefix.Network.String(),
		Netmask:    prefix.Mask.String(),
		LocalPref:  attrs.LocalPref,
		ASPath:     attrs.ASPath,
		Origin:     attrs.Origin.String(),
		SelfOrigin: attrs.SelfOrigin,
	}
}

// PrefixFromWithdrawn converts a wire withdrawn-route entry into a Prefix.
func PrefixFromWithdrawn(w WithdrawnRoute) (addr.Prefix, error) {
	network, err := addr.Parse(w.Network)
	if err != nil {
		return addr.Prefix{}, fmt.Errorf("revoke network: %w", err)
	}

	mask, err := addr.ParseMask(w.Netmask)
	if err != nil {
		return addr.Prefix{}, fmt.Errorf("revoke netmask: %w", err)
	}

	return addr.Prefix{Network: network, Mask: mask}, nil
}
