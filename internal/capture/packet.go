// Package capture implements the dedicated capture producer: a background
// goroutine that drains frames from a live packet capture, classifies each
// into a flow direction, and enqueues a compact packet descriptor onto a
// buffered channel (capacity packetQueueSlack) for the flow aggregator to
// consume. The channel is bounded: when it is full the packet is dropped
// and counted in QueueFull.
//
// Built on google/gopacket/pcap, the idiomatic Go ecosystem choice for
// live packet capture.
package capture

import (
	"net"
	"time"
)

// Transport tags a packet's transport protocol.
type Transport int

const (
	TCP Transport = iota
	UDP
)

// Dir is the direction of a packet relative to this host.
type Dir int

const (
	In Dir = iota
	Out
)

// Packet is the compact descriptor the producer enqueues for the
// aggregator: the flow 5-tuple, payload length, direction, and the two
// classification flags (Foreign, LocalTraffic).
type Packet struct {
	TS           time.Time
	Len          uint32
	Transport    Transport
	SrcAddr      net.IP
	DstAddr      net.IP
	SrcPort      uint16
	DstPort      uint16
	Dir          Dir
	Foreign      bool
	LocalTraffic bool
}
