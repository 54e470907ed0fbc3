package addr

import (
	"net"
	"testing"
)

func TestFromIP_V4RangeDetection(t *testing.T) {
	a := FromIP(net.ParseIP("1.2.3.4"))
	if !a.IsV4() {
		t.Errorf("1.2.3.4 should be classified as IsV4")
	}
	if a.Lo != 0x01020304 || a.Hi != 0 {
		t.Errorf("FromIP(1.2.3.4) = %+v; want Lo=0x01020304", a)
	}
}

func TestFromIP_V6(t *testing.T) {
	a := FromIP(net.ParseIP("fe80::1"))
	if a.IsV4() {
		t.Errorf("fe80::1 must not be classified as IsV4")
	}
}

func TestParseCIDR(t *testing.T) {
	base, bits, err := ParseCIDR("8.8.8.0/24")
	if err != nil {
		t.Fatalf("ParseCIDR error: %v", err)
	}
	if bits != 24 {
		t.Errorf("bits = %d; want 24", bits)
	}
	want := FromIP(net.ParseIP("8.8.8.0"))
	if !base.Equal(want) {
		t.Errorf("base = %+v; want %+v", base, want)
	}
}

func TestParseCIDR_MasksInput(t *testing.T) {
	// 8.8.8.8/24 should mask down to the 8.8.8.0 base.
	base, _, err := ParseCIDR("8.8.8.8/24")
	if err != nil {
		t.Fatalf("ParseCIDR error: %v", err)
	}
	want := FromIP(net.ParseIP("8.8.8.0"))
	if !base.Equal(want) {
		t.Errorf("base = %+v; want masked %+v", base, want)
	}
}

func TestParseCIDR_RejectsOversizedPrefix(t *testing.T) {
	if _, _, err := ParseCIDR("1.2.3.4/33"); err == nil {
		t.Errorf("expected error for /33 on an IPv4 address")
	}
}

func TestString_DecimalRoundTrip(t *testing.T) {
	a := FromIP(net.ParseIP("1.2.3.4"))
	if got := a.String(); got != "16909060" {
		t.Errorf("String() = %q; want 16909060", got)
	}
}

func TestMask(t *testing.T) {
	m := Mask(24, 32)
	if m.Lo != 0xFFFFFF00 {
		t.Errorf("Mask(24,32) = %#x; want 0xffffff00", m.Lo)
	}
	m0 := Mask(0, 32)
	if m0.Lo != 0 {
		t.Errorf("Mask(0,32) = %#x; want 0", m0.Lo)
	}
}
