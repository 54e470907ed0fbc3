package ipdata

import (
	"net"
	"testing"

	"github.com/turborat/pacmon/internal/addr"
)

func a(s string) addr.Addr {
	return addr.FromIP(net.ParseIP(s))
}

func TestLookup_CompanyBasic(t *testing.T) {
	idx := NewIndex[string]()
	idx.Add(a("8.8.8.0"), 24, "GOOGLE")
	idx.Build()

	if v, ok := idx.Lookup(a("8.8.8.8")); !ok || v != "GOOGLE" {
		t.Errorf("Lookup(8.8.8.8) = (%q, %v); want (GOOGLE, true)", v, ok)
	}
	if v, ok := idx.Lookup(a("8.8.8.0")); !ok || v != "GOOGLE" {
		t.Errorf("Lookup(8.8.8.0) = (%q, %v); want (GOOGLE, true)", v, ok)
	}
	if _, ok := idx.Lookup(a("9.0.0.0")); ok {
		t.Errorf("Lookup(9.0.0.0) should miss")
	}
}

func TestLookup_BoundedMask(t *testing.T) {
	idx := NewIndex[string]()
	idx.Add(a("223.255.254.0"), 24, "X")
	idx.Build()

	if v, ok := idx.Lookup(a("223.255.254.255")); !ok || v != "X" {
		t.Errorf("Lookup(223.255.254.255) = (%q, %v); want (X, true)", v, ok)
	}
	if _, ok := idx.Lookup(a("223.255.255.0")); ok {
		t.Errorf("Lookup(223.255.255.0) should miss (just past the /24 boundary)")
	}
	if _, ok := idx.Lookup(a("224.0.0.251")); ok {
		t.Errorf("Lookup(224.0.0.251) should miss")
	}
}

func TestLookup_NoBackwardWalk(t *testing.T) {
	// Two entries; querying inside the first's subnet but the floor entry
	// (the second, later-keyed one) is a sibling whose mask does not match.
	idx := NewIndex[string]()
	idx.Add(a("10.0.0.0"), 8, "COVERS")
	idx.Add(a("10.5.0.0"), 24, "SIBLING")
	idx.Build()

	// 10.5.1.1's floor is the SIBLING entry (base 10.5.0.0), whose /24 mask
	// does not match 10.5.1.1 -- Lookup must return false, not walk back to
	// the COVERS entry even though it would match.
	if _, ok := idx.Lookup(a("10.5.1.1")); ok {
		t.Errorf("Lookup must not walk backward past the floor entry")
	}
}

func TestLookup_EmptyIndex(t *testing.T) {
	idx := NewIndex[string]()
	idx.Build()
	if _, ok := idx.Lookup(a("1.2.3.4")); ok {
		t.Errorf("empty index should never match")
	}
}

func TestAdd_PanicsOnOversizedPrefix(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for prefix_bits > width")
		}
	}()
	idx := NewIndex[string]()
	idx.Add(a("1.2.3.4"), 33, "BAD")
}

func TestFallbackDataset_KnownLookups(t *testing.T) {
	d := New(fallbackCorps, fallbackLocations)

	cases := []struct {
		ip   string
		want string
	}{
		{"8.8.8.8", "GOOGLE"},
		{"8.8.8.4", "GOOGLE"},
		{"8.8.8.0", "GOOGLE"},
		{"1.0.0.0", "CLOUDFLARENET"},
		{"1.0.128.3", "TOT Public Company Limited"},
		{"223.255.254.255", "MARINA BAY SANDS PTE LTD"},
	}
	for _, c := range cases {
		got, ok := d.Corps.Lookup(a(c.ip))
		if !ok || got != c.want {
			t.Errorf("Corps.Lookup(%s) = (%q, %v); want (%q, true)", c.ip, got, ok, c.want)
		}
	}

	misses := []string{"0.1.0.0", "224.0.0.251", "239.255.255.250", "223.255.255.0"}
	for _, ip := range misses {
		if _, ok := d.Corps.Lookup(a(ip)); ok {
			t.Errorf("Corps.Lookup(%s) should miss", ip)
		}
	}

	if loc, ok := d.Locations.Lookup(a("8.8.8.8")); !ok || loc.Country != "US" {
		t.Errorf("Locations.Lookup(8.8.8.8) = (%+v, %v); want country US", loc, ok)
	}
}
