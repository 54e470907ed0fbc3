package flow

import (
	"fmt"
	"net"
	"time"

	"github.com/turborat/pacmon/internal/capture"
	"github.com/turborat/pacmon/internal/resolver"
)

// Stream is a flow record: one bidirectional conversation, enriched once
// on first sight and tallied on every subsequent packet. Cumulative
// counters grow monotonically; the "Last" counters are interval deltas
// zeroed on every render tick.
type Stream struct {
	Proc string // "-" if unknown or foreign
	PID  int
	HasPID bool

	LocalAddr    net.IP
	LocalHost    string
	LocalPort    uint16
	LocalService string

	RemoteAddr    net.IP
	RemoteHost    string
	RemotePort    uint16
	RemoteService string

	CC   string
	City string
	Corp string

	BytesSent, BytesSentLast uint64
	BytesRecv, BytesRecvLast uint64
	PacketsIn, PacketsOut    uint64

	TSLast time.Time

	Foreign      bool
	LocalTraffic bool
	Transport    capture.Transport
}

// newStream creates and immediately enriches a Stream from the first
// packet seen for a flow key: PID/proc/host/service/company/country are
// all resolved once, here, on creation.
func newStream(p capture.Packet, r *resolver.Resolver) *Stream {
	localAddr, localPort, remoteAddr, remotePort := localAndRemote(p)

	s := &Stream{
		Proc:         "-",
		LocalAddr:    localAddr,
		LocalPort:    localPort,
		RemoteAddr:   remoteAddr,
		RemotePort:   remotePort,
		Foreign:      p.Foreign,
		LocalTraffic: p.LocalTraffic,
		Transport:    p.Transport,
	}

	if !p.Foreign {
		rt := resolver.TCP
		if p.Transport == capture.UDP {
			rt = resolver.UDP
		}
		if pid, ok := r.ResolvePID(rt, localAddr, localPort); ok {
			s.PID, s.HasPID = pid, true
			if name, ok := r.ResolveProc(pid); ok {
				s.Proc = name
			}
		}
	}

	s.LocalHost = r.ResolveHost(localAddr)
	s.RemoteHost = r.ResolveHost(remoteAddr)
	s.LocalService = r.ResolveService(localPort)
	s.RemoteService = r.ResolveService(remotePort)

	if s.LocalTraffic {
		s.CC, s.Corp = "-", "-"
	} else {
		s.CC = r.ResolveCC(remoteAddr)
		s.City = r.ResolveCity(remoteAddr)
		s.Corp = r.ResolveCompany(remoteAddr)
		if s.Corp == "-" {
			s.Corp = "?"
		}
	}

	return s
}

// tally adds one packet's payload length to the appropriate direction's
// cumulative and delta counters and bumps the packet count.
func (s *Stream) tally(p capture.Packet) {
	if p.Dir == capture.Out {
		s.BytesSent += uint64(p.Len)
		s.BytesSentLast += uint64(p.Len)
		s.PacketsOut++
	} else {
		s.BytesRecv += uint64(p.Len)
		s.BytesRecvLast += uint64(p.Len)
		s.PacketsIn++
	}
	s.TSLast = p.TS
}

// Bytes returns cumulative bytes sent+received.
func (s *Stream) Bytes() uint64 { return s.BytesSent + s.BytesRecv }

// BytesLast returns interval-delta bytes sent+received.
func (s *Stream) BytesLast() uint64 { return s.BytesSentLast + s.BytesRecvLast }

// ResetStats zeroes the interval-delta counters; cumulative counters are
// untouched. Called by the renderer once per render tick.
func (s *Stream) ResetStats() {
	s.BytesSentLast = 0
	s.BytesRecvLast = 0
}

// AgeSeconds returns seconds since TSLast, or 0 if the flow had traffic
// this interval (the renderer maps 0 to the "." age marker).
func (s *Stream) AgeSeconds(now time.Time) uint64 {
	if s.BytesLast() > 0 {
		return 0
	}
	d := now.Sub(s.TSLast)
	if d < 0 {
		return 0
	}
	return uint64(d.Seconds())
}

// clone returns a shallow copy suitable for a render-time snapshot (the
// aggregator may keep tallying the original concurrently... in this
// single-threaded consumer there's no concurrency risk, but cloning still
// lets the renderer sort without disturbing iteration order elsewhere).
func (s *Stream) clone() *Stream {
	cp := *s
	return &cp
}

// String renders one diagnostic line (last-packet time, a direction marker
// that reads "<<" when the flow has seen more inbound than outbound packets
// and ">>" otherwise, transport, local and remote endpoints, and the flow's
// cumulative bytes as len=), used by the "-dump" headless mode.
func (s *Stream) String() string {
	marker := ">>"
	if s.PacketsIn > s.PacketsOut {
		marker = "<<"
	}
	proto := "TCP"
	if s.Transport == capture.UDP {
		proto = "UDP"
	}
	return fmt.Sprintf("%s %s %s %s:%d %s %s:%d len=%d",
		s.TSLast.Format("15:04:05.000000"), marker, proto,
		s.LocalAddr, s.LocalPort, marker, s.RemoteAddr, s.RemotePort, s.Bytes())
}
