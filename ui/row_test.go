package ui

import (
	"net"
	"testing"
	"time"

	"github.com/turborat/pacmon/internal/capture"
	"github.com/turborat/pacmon/internal/flow"
)

func sampleStream() *flow.Stream {
	return &flow.Stream{
		Proc:          "-",
		HasPID:        false,
		LocalAddr:     net.ParseIP("10.0.0.5"),
		LocalHost:     "workstation",
		LocalPort:     51000,
		RemoteAddr:    net.ParseIP("8.8.8.8"),
		RemoteHost:    "dns.google",
		RemotePort:    443,
		RemoteService: "https",
		CC:            "US",
		Corp:          "GOOGLE",
		BytesSent:     2000,
		BytesSentLast: 1000,
		BytesRecv:     4000,
		BytesRecvLast: 2000,
		TSLast:        time.Now(),
		Transport:     capture.TCP,
	}
}

func TestLocalLabel_ProcessOwnedFlow(t *testing.T) {
	s := sampleStream()
	s.HasPID = true
	s.Proc = "curl"
	if got := localLabel(s, true); got != "<curl>" {
		t.Errorf("localLabel = %q, want %q", got, "<curl>")
	}
}

func TestLocalLabel_ForeignFlowUsesHost(t *testing.T) {
	s := sampleStream()
	s.Foreign = true
	if got := localLabel(s, true); got != "workstation" {
		t.Errorf("localLabel = %q, want %q", got, "workstation")
	}
}

func TestLocalLabel_NoResolveUsesAddr(t *testing.T) {
	s := sampleStream()
	s.Foreign = true
	if got := localLabel(s, false); got != "10.0.0.5" {
		t.Errorf("localLabel = %q, want %q", got, "10.0.0.5")
	}
}

func TestFlowRow_HasElevenCells(t *testing.T) {
	s := sampleStream()
	row := flowRow(s, 10000, 10000, time.Now(), 1.0, true)
	if len(row) != 11 {
		t.Fatalf("flowRow returned %d cells, want 11", len(row))
	}
	if row[1] != "dns.google:https" {
		t.Errorf("remote cell = %q, want %q", row[1], "dns.google:https")
	}
}

func TestCorpCell_StripsTrailingPunctuationOnTruncate(t *testing.T) {
	s := sampleStream()
	s.Corp = "GOOGLE, LLC"
	got := corpCell(s, 7)
	if got != "GOOGLE" {
		t.Errorf("corpCell = %q, want %q", got, "GOOGLE")
	}
}

func TestCC_UnknownRendersQuestionMark(t *testing.T) {
	s := sampleStream()
	s.CC = ""
	if got := cc(s); got != "?" {
		t.Errorf("cc = %q, want %q", got, "?")
	}
}
