// Package router ties the RIB, aggregator, selector, and propagator
// together: it classifies each inbound message and invokes the right
// handler, producing no-route replies and table dumps.
package router

import (
	"fmt"
	"log"

	"github.com/perrottam/networks-proj3/internal/addr"
	"github.com/perrottam/networks-proj3/internal/aggregate"
	"github.com/perrottam/networks-proj3/internal/message"
	"github.com/perrottam/networks-proj3/internal/neighbor"
	"github.com/perrottam/networks-proj3/internal/propagate"
	"github.com/perrottam/networks-proj3/internal/rib"
	"github.com/perrottam/networks-proj3/internal/route"
	"github.com/perrottam/networks-proj3/internal/selector"
)

// Outbound is a message the caller must deliver to To's channel.
type Outbound struct {
	To  addr.Addr
	Env message.Envelope
}

// Router owns the RIB, the derived coalesced view, and the neighbor
// table. It is built once and driven by a single goroutine: every
// method here assumes it is the only writer, so no locking is
// required.
type Router struct {
	neighbors *neighbor.Table
	localAS   int
	logger    *log.Logger

	rib        *rib.RIB
	aggregated []route.Entry
}

// New builds a Router for the given fixed neighbor table and local AS
// number. logger may be nil, in which case log.Default() is used.
func New(neighbors *neighbor.Table, localAS int, logger *log.Logger) *Router {
	if logger == nil {
		logger = log.Default()
	}
	return &Router{
		neighbors: neighbors,
		localAS:   localAS,
		logger:    logger,
		rib:       rib.New(),
	}
}

// Aggregated returns the current coalesced view. Callers must not
// mutate the returned slice's entries.
func (r *Router) Aggregated() []route.Entry {
	return r.aggregated
}

// RIB returns the underlying RIB, for introspection only (e.g. the
// debug surface's "show rib").
func (r *Router) RIB() *rib.RIB {
	return r.rib
}

// Neighbors returns the fixed neighbor table, for introspection only.
func (r *Router) Neighbors() *neighbor.Table {
	return r.neighbors
}

// Dispatch classifies env, arrived from ingress, and runs the matching
// handler. It returns the messages that must be sent out as a result,
// or an error for a message that should be dropped and logged by the
// caller.
func (r *Router) Dispatch(ingress addr.Addr, env message.Envelope) ([]Outbound, error) {
	switch env.Type {
	case message.Update:
		body, ok := env.Body.(message.UpdateBody)
		if !ok {
			return nil, fmt.Errorf("router: update envelope has wrong body type %T", env.Body)
		}
		return r.handleUpdate(ingress, body)
	case message.Revoke:
		body, ok := env.Body.(message.RevokeBody)
		if !ok {
			return nil, fmt.Errorf("router: revoke envelope has wrong body type %T", env.Body)
		}
		return r.handleRevoke(ingress, body)
	case message.Data:
		return r.handleData(ingress, env)
	case message.Dump:
		return r.handleDump(ingress, env)
	default:
		return nil, &message.UnknownTypeError{Type: string(env.Type)}
	}
}

func (r *Router) handleUpdate(ingress addr.Addr, body message.UpdateBody) ([]Outbound, error) {
	attrs, prefix, err := message.AttributesFromUpdate(body)
	if err != nil {
		return nil, fmt.Errorf("router: %w", err)
	}

	r.rib.AppendAnnouncement(rib.Announcement{
		From: ingress,
		Env:  message.Envelope{Src: ingress, Type: message.Update, Body: body},
	})
	r.rib.Append(route.Entry{Prefix: prefix, NextHop: ingress, Attributes: attrs})
	r.rebuild()

	outAttrs := propagate.UpdateAttributes(attrs, r.localAS)
	outBody := message.UpdateFromAttributes(prefix, outAttrs)

	var out []Outbound
	for _, n := range propagate.Targets(r.neighbors, ingress) {
		out = append(out, Outbound{
			To: n,
			Env: message.Envelope{
				Src:  addr.RouterSide(n),
				Dst:  n,
				Type: message.Update,
				Body: outBody,
			},
		})
	}
	return out, nil
}

func (r *Router) handleRevoke(ingress addr.Addr, body message.RevokeBody) ([]Outbound, error) {
	r.rib.AppendAnnouncement(rib.Announcement{
		From: ingress,
		Env:  message.Envelope{Src: ingress, Type: message.Revoke, Body: body},
	})

	withdrawn := make([]addr.Prefix, 0, len(body))
	for _, w := range body {
		p, err := message.PrefixFromWithdrawn(w)
		if err != nil {
			return nil, fmt.Errorf("router: %w", err)
		}
		withdrawn = append(withdrawn, p)
		r.rib.Withdraw(p, ingress)
	}
	r.rebuild()

	outWithdrawn := propagate.RevokeWithdrawn(withdrawn)
	outBody := make(message.RevokeBody, len(outWithdrawn))
	for i, p := range outWithdrawn {
		outBody[i] = message.WithdrawnRoute{Network: p.Network.String(), Netmask: p.Mask.String()}
	}

	var out []Outbound
	for _, n := range propagate.Targets(r.neighbors, ingress) {
		out = append(out, Outbound{
			To: n,
			Env: message.Envelope{
				Src:  addr.RouterSide(n),
				Dst:  n,
				Type: message.Revoke,
				Body: outBody,
			},
		})
	}
	return out, nil
}

func (r *Router) handleData(ingress addr.Addr, env message.Envelope) ([]Outbound, error) {
	body, ok := env.Body.(message.DataBody)
	if !ok {
		return nil, fmt.Errorf("router: data envelope has wrong body type %T", env.Body)
	}

	res := selector.Select(r.aggregated, r.neighbors, ingress, env.Dst)
	if res.Found && res.Permitted {
		return []Outbound{{
			To: res.Entry.NextHop,
			Env: message.Envelope{
				Src:  env.Src,
				Dst:  env.Dst,
				Type: message.Data,
				Body: body,
			},
		}}, nil
	}

	return []Outbound{r.noRoute(ingress, env.Src)}, nil
}

func (r *Router) noRoute(ingress, originalSrc addr.Addr) Outbound {
	return Outbound{
		To: ingress,
		Env: message.Envelope{
			Src:  addr.RouterSide(ingress),
			Dst:  originalSrc,
			Type: message.NoRoute,
			Body: message.NoRouteBody{},
		},
	}
}

func (r *Router) handleDump(ingress addr.Addr, env message.Envelope) ([]Outbound, error) {
	entries := make(message.TableBody, 0, len(r.aggregated))
	for _, e := range r.aggregated {
		entries = append(entries, message.TableEntry{
			Network: e.Prefix.Network.String(),
			Netmask: e.Prefix.Mask.String(),
			Peer:    e.NextHop.String(),
		})
	}

	return []Outbound{{
		To: ingress,
		Env: message.Envelope{
			Src:  addr.RouterSide(ingress),
			Dst:  env.Src,
			Type: message.Table,
			Body: entries,
		},
	}}, nil
}

// rebuild recomputes the coalesced view end to end, never incrementally,
// so it is always a pure function of the RIB's current contents.
func (r *Router) rebuild() {
	r.aggregated = aggregate.Aggregate(r.rib.Snapshot())
}
