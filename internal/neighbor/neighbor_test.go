package neighbor

import "testing"

func TestParseToken(t *testing.T) {
	n, err := ParseToken("192.168.0.2-cust")
	if err != nil {
		t.Fatal(err)
	}
	if n.Relationship != Customer {
		t.Errorf("got relationship %s, want cust", n.Relationship)
	}
	if n.Handle.String() != "192.168.0.2" {
		t.Errorf("got handle %s, want 192.168.0.2", n.Handle)
	}
}

func TestParseTokenMalformed(t *testing.T) {
	cases := []string{"", "192.168.0.2", "192.168.0.2-bogus", "bogus-cust"}
	for _, tok := range cases {
		if _, err := ParseToken(tok); err == nil {
			t.Errorf("ParseToken(%q): expected error", tok)
		}
	}
}

func TestParseTokensDuplicate(t *testing.T) {
	_, err := ParseTokens([]string{"192.168.0.2-cust", "192.168.0.2-peer"})
	if err == nil {
		t.Fatal("expected error for duplicate neighbor handle")
	}
}

func TestTableRelationship(t *testing.T) {
	table, err := ParseTokens([]string{"192.168.0.2-cust", "172.16.0.2-peer"})
	if err != nil {
		t.Fatal(err)
	}

	a, _ := ParseToken("192.168.0.2-cust")
	rel, ok := table.Relationship(a.Handle)
	if !ok || rel != Customer {
		t.Errorf("got (%s, %v), want (cust, true)", rel, ok)
	}

	b, _ := ParseToken("10.0.0.2-cust")
	if table.Known(b.Handle) {
		t.Error("expected 10.0.0.2 to be unknown")
	}
}

func TestAtLeastOneCustomer(t *testing.T) {
	if !AtLeastOneCustomer(Customer, Peer) {
		t.Error("expected true when one side is customer")
	}
	if AtLeastOneCustomer(Peer, Provider) {
		t.Error("expected false when neither side is customer")
	}
}
