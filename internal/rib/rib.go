// Package rib holds the authoritative routing information base: the
// ordered list of learned route entries and the archive of raw
// announcements they were learned from.
package rib

import (
	"github.com/perrottam/networks-proj3/internal/addr"
	"github.com/perrottam/networks-proj3/internal/message"
	"github.com/perrottam/networks-proj3/internal/route"
)

// Announcement is a retained copy of an inbound update or revoke,
// together with the neighbor it arrived from.
type Announcement struct {
	From addr.Addr
	Env  message.Envelope
}

// RIB is the authoritative list of route entries plus the announcement
// archive. It is owned by the router and mutated only by the
// dispatcher; nothing in this package synchronizes access, since only
// the single dispatch goroutine ever touches it.
type RIB struct {
	entries []route.Entry
	archive []Announcement
}

// New returns an empty RIB.
func New() *RIB {
	return &RIB{}
}

// Append adds e to the end of the entry list. Order of appends is
// preserved — the aggregator's determinism depends on it even though
// the selector's tie-breaks don't.
func (r *RIB) Append(e route.Entry) {
	r.entries = append(r.entries, e)
}

// Withdraw removes every entry whose (prefix, next-hop) exactly matches
// (p, nextHop) and reports how many were removed.
func (r *RIB) Withdraw(p addr.Prefix, nextHop addr.Addr) int {
	kept := r.entries[:0:0]
	removed := 0

	for _, e := range r.entries {
		if e.NextHop == nextHop && e.Prefix.Equal(p) {
			removed++
			continue
		}
		kept = append(kept, e)
	}

	r.entries = kept
	return removed
}

// Snapshot returns a copy of the entry list in insertion order, safe
// for the aggregator to consume without aliasing the RIB's backing
// array.
func (r *RIB) Snapshot() []route.Entry {
	out := make([]route.Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// AppendAnnouncement records a in the archive.
func (r *RIB) AppendAnnouncement(a Announcement) {
	r.archive = append(r.archive, a)
}

// Archive returns a copy of the retained announcements in arrival
// order. Nothing reads it back yet, but it's kept as a first-class
// queryable slice so a future soft-reconfiguration feature can be added
// without reshaping the RIB.
func (r *RIB) Archive() []Announcement {
	out := make([]Announcement, len(r.archive))
	copy(out, r.archive)
	return out
}

// Len returns the number of entries currently in the RIB.
func (r *RIB) Len() int {
	return len(r.entries)
}
