package selector

import (
	"testing"

	"github.com/perrottam/networks-proj3/internal/addr"
	"github.com/perrottam/networks-proj3/internal/neighbor"
	"github.com/perrottam/networks-proj3/internal/route"
)

func a(t *testing.T, s string) addr.Addr {
	t.Helper()
	v, err := addr.Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func pfx(t *testing.T, network, mask string) addr.Prefix {
	t.Helper()
	n, err := addr.Parse(network)
	if err != nil {
		t.Fatal(err)
	}
	m, err := addr.ParseMask(mask)
	if err != nil {
		t.Fatal(err)
	}
	return addr.Prefix{Network: n, Mask: m}
}

func table(t *testing.T, neighbors []neighbor.Neighbor) *neighbor.Table {
	t.Helper()
	tbl, err := neighbor.NewTable(neighbors)
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func TestSelectBasicForward(t *testing.T) {
	custA := a(t, "192.168.0.2")
	custB := a(t, "172.16.0.2")

	neighbors := table(t, []neighbor.Neighbor{
		{Handle: custA, Relationship: neighbor.Customer},
		{Handle: custB, Relationship: neighbor.Customer},
	})

	entries := []route.Entry{
		{
			Prefix:  pfx(t, "192.168.0.0", "255.255.255.0"),
			NextHop: custA,
			Attributes: route.Attributes{
				LocalPref: 100, SelfOrigin: false, ASPath: []int{1}, Origin: route.EGP,
			},
		},
	}

	dst := a(t, "192.168.0.25")
	res := Select(entries, neighbors, custB, dst)

	if !res.Found || !res.Permitted {
		t.Fatalf("expected found+permitted, got %+v", res)
	}
	if res.Entry.NextHop != custA {
		t.Errorf("got next-hop %s, want %s", res.Entry.NextHop, custA)
	}
}

func TestSelectNoRoute(t *testing.T) {
	custA := a(t, "192.168.0.2")
	custB := a(t, "172.16.0.2")

	neighbors := table(t, []neighbor.Neighbor{
		{Handle: custA, Relationship: neighbor.Customer},
		{Handle: custB, Relationship: neighbor.Customer},
	})

	entries := []route.Entry{
		{
			Prefix:  pfx(t, "192.168.0.0", "255.255.255.0"),
			NextHop: custA,
			Attributes: route.Attributes{LocalPref: 100, ASPath: []int{1}, Origin: route.EGP},
		},
	}

	res := Select(entries, neighbors, custB, a(t, "10.0.0.1"))
	if res.Found {
		t.Fatalf("expected no LPM match, got %+v", res)
	}
}

func TestSelectPolicyReject(t *testing.T) {
	peerD := a(t, "4.4.4.4")
	peerC := a(t, "3.3.3.3")

	neighbors := table(t, []neighbor.Neighbor{
		{Handle: peerD, Relationship: neighbor.Peer},
		{Handle: peerC, Relationship: neighbor.Peer},
	})

	entries := []route.Entry{
		{
			Prefix:  pfx(t, "192.168.0.0", "255.255.255.0"),
			NextHop: peerD,
			Attributes: route.Attributes{LocalPref: 100, ASPath: []int{1}, Origin: route.EGP},
		},
	}

	res := Select(entries, neighbors, peerC, a(t, "192.168.0.25"))
	if !res.Found {
		t.Fatal("expected LPM to succeed")
	}
	if res.Permitted {
		t.Error("expected peer-to-peer forward to be rejected by the relationship filter")
	}
}

func TestSelectTieBreakCascadeOrigin(t *testing.T) {
	custA := a(t, "192.168.0.2")
	custB := a(t, "172.16.0.2")
	reqFrom := a(t, "9.9.9.9")

	neighbors := table(t, []neighbor.Neighbor{
		{Handle: custA, Relationship: neighbor.Customer},
		{Handle: custB, Relationship: neighbor.Customer},
		{Handle: reqFrom, Relationship: neighbor.Customer},
	})

	prefix := pfx(t, "192.168.0.0", "255.255.255.0")
	entries := []route.Entry{
		{Prefix: prefix, NextHop: custA, Attributes: route.Attributes{LocalPref: 100, ASPath: []int{1}, Origin: route.IGP}},
		{Prefix: prefix, NextHop: custB, Attributes: route.Attributes{LocalPref: 100, ASPath: []int{1}, Origin: route.EGP}},
	}

	res := Select(entries, neighbors, reqFrom, a(t, "192.168.0.25"))
	if !res.Found || !res.Permitted {
		t.Fatalf("expected a forwarded route, got %+v", res)
	}
	if res.Entry.NextHop != custA {
		t.Errorf("got next-hop %s, want IGP next-hop %s", res.Entry.NextHop, custA)
	}
}

func TestSelectTotality(t *testing.T) {
	// Whenever LPM produces a nonempty set, steps 2-6 must narrow to
	// exactly one entry without ever dropping to zero midway.
	custA := a(t, "1.1.1.1")
	custB := a(t, "2.2.2.2")
	custC := a(t, "3.3.3.3")

	neighbors := table(t, []neighbor.Neighbor{
		{Handle: custA, Relationship: neighbor.Customer},
		{Handle: custB, Relationship: neighbor.Customer},
		{Handle: custC, Relationship: neighbor.Customer},
	})

	prefix := pfx(t, "10.0.0.0", "255.0.0.0")
	entries := []route.Entry{
		{Prefix: prefix, NextHop: custB, Attributes: route.Attributes{LocalPref: 50, ASPath: []int{1, 2}, Origin: route.UNK}},
		{Prefix: prefix, NextHop: custA, Attributes: route.Attributes{LocalPref: 50, ASPath: []int{1, 2}, Origin: route.UNK}},
		{Prefix: prefix, NextHop: custC, Attributes: route.Attributes{LocalPref: 50, ASPath: []int{1, 2}, Origin: route.UNK}},
	}

	res := Select(entries, neighbors, custA, a(t, "10.1.2.3"))
	if !res.Found {
		t.Fatal("expected LPM to find a match")
	}
	if res.Entry.NextHop != custA {
		t.Errorf("lowest-next-hop tie-break failed: got %s, want %s", res.Entry.NextHop, custA)
	}
}
