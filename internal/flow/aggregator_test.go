package flow

import (
	"net"
	"testing"
	"time"

	"github.com/turborat/pacmon/internal/capture"
	"github.com/turborat/pacmon/internal/ipdata"
	"github.com/turborat/pacmon/internal/resolver"
)

func testResolver() *resolver.Resolver {
	return resolver.New(ipdata.New(nil, nil), nil)
}

func mkPacket(src, dst string, srcPort, dstPort uint16, dir capture.Dir, length uint32) capture.Packet {
	return capture.Packet{
		TS:        time.Now(),
		Len:       length,
		Transport: capture.TCP,
		SrcAddr:   net.ParseIP(src),
		DstAddr:   net.ParseIP(dst),
		SrcPort:   srcPort,
		DstPort:   dstPort,
		Dir:       dir,
		Foreign:   true, // skip PID resolution in tests (sandbox has no matching socket)
	}
}

func TestKeyNormalization_BothDirectionsCollide(t *testing.T) {
	p1 := mkPacket("10.0.0.5", "10.0.0.9", 443, 51000, capture.Out, 100)
	p2 := mkPacket("10.0.0.9", "10.0.0.5", 51000, 443, capture.In, 50)

	if KeyFor(p1) != KeyFor(p2) {
		t.Fatalf("KeyFor should be symmetric: %+v != %+v", KeyFor(p1), KeyFor(p2))
	}
}

func TestTally_CumulativeNeverLessThanDelta(t *testing.T) {
	agg := New(testResolver())
	p := mkPacket("10.0.0.5", "8.8.8.8", 51000, 443, capture.Out, 200)
	agg.Tally(p)
	agg.Tally(p)

	for _, s := range agg.flows {
		if s.BytesSent < s.BytesSentLast {
			t.Errorf("BytesSent(%d) < BytesSentLast(%d)", s.BytesSent, s.BytesSentLast)
		}
		if s.BytesSent != 400 {
			t.Errorf("BytesSent = %d; want 400", s.BytesSent)
		}
	}
}

func TestSnapshot_ResetsDeltaNotCumulative(t *testing.T) {
	agg := New(testResolver())
	p := mkPacket("10.0.0.5", "8.8.8.8", 51000, 443, capture.Out, 200)
	agg.Tally(p)

	snap := agg.Snapshot(SortByActivity)
	if len(snap) != 1 {
		t.Fatalf("expected 1 stream, got %d", len(snap))
	}
	if snap[0].BytesSent != 200 {
		t.Errorf("snapshot BytesSent = %d; want 200", snap[0].BytesSent)
	}

	for _, s := range agg.flows {
		if s.BytesSentLast != 0 {
			t.Errorf("BytesSentLast after reset = %d; want 0", s.BytesSentLast)
		}
		if s.BytesSent != 200 {
			t.Errorf("cumulative BytesSent after reset = %d; want unchanged 200", s.BytesSent)
		}
	}
}

func TestSingleFlow_AcrossBothDirections(t *testing.T) {
	agg := New(testResolver())
	agg.Tally(mkPacket("10.0.0.5", "10.0.0.9", 443, 51000, capture.Out, 100))
	agg.Tally(mkPacket("10.0.0.9", "10.0.0.5", 51000, 443, capture.In, 50))

	if agg.Len() != 1 {
		t.Fatalf("expected both directions to collide into one flow, got %d distinct flows", agg.Len())
	}
}

func TestTotalBytes_SumsAcrossFlows(t *testing.T) {
	agg := New(testResolver())
	agg.Tally(mkPacket("10.0.0.5", "8.8.8.8", 51000, 443, capture.Out, 200))
	agg.Tally(mkPacket("10.0.0.5", "1.1.1.1", 51001, 443, capture.Out, 300))

	if got := agg.TotalBytes(); got != 500 {
		t.Errorf("TotalBytes = %d; want 500", got)
	}

	agg.Snapshot(SortByActivity) // resets deltas, not cumulative
	if got := agg.TotalBytes(); got != 500 {
		t.Errorf("TotalBytes after snapshot reset = %d; want unchanged 500", got)
	}
}

func TestResetDeltas_ZeroesBothDictionariesWithoutCloning(t *testing.T) {
	agg := New(testResolver())
	agg.Tally(mkPacket("10.0.0.5", "8.8.8.8", 51000, 443, capture.Out, 200))

	agg.ResetDeltas()

	for _, s := range agg.flows {
		if s.BytesSentLast != 0 {
			t.Errorf("flows: BytesSentLast after ResetDeltas = %d; want 0", s.BytesSentLast)
		}
	}
	for _, s := range agg.corps {
		if s.BytesSentLast != 0 {
			t.Errorf("corps: BytesSentLast after ResetDeltas = %d; want 0", s.BytesSentLast)
		}
	}
}

func TestLookup_ReturnsLiveRecordWithoutResetting(t *testing.T) {
	agg := New(testResolver())
	p := mkPacket("10.0.0.5", "8.8.8.8", 51000, 443, capture.Out, 200)
	agg.Tally(p)

	s := agg.Lookup(p)
	if s == nil {
		t.Fatal("Lookup returned nil for a tallied packet")
	}
	if s.BytesSentLast != 200 {
		t.Errorf("Lookup's BytesSentLast = %d; want 200 (unreset)", s.BytesSentLast)
	}
}
