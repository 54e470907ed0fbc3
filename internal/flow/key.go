package flow

import (
	"net"

	"github.com/turborat/pacmon/internal/addr"
	"github.com/turborat/pacmon/internal/capture"
)

// Key is the normalized flow 5-tuple: the endpoint pair is reordered so
// the numerically larger address is always first, making the key
// symmetric between the two directions of a conversation.
type Key struct {
	Transport   capture.Transport
	AddrA, AddrB string
	PortA, PortB uint16
}

// KeyFor builds the normalized key for a packet.
func KeyFor(p capture.Packet) Key {
	srcInt := addr.FromIP(p.SrcAddr)
	dstInt := addr.FromIP(p.DstAddr)
	if dstInt.Less(srcInt) {
		return Key{
			Transport: p.Transport,
			AddrA:     p.SrcAddr.String(), PortA: p.SrcPort,
			AddrB: p.DstAddr.String(), PortB: p.DstPort,
		}
	}
	return Key{
		Transport: p.Transport,
		AddrA:     p.DstAddr.String(), PortA: p.DstPort,
		AddrB: p.SrcAddr.String(), PortB: p.SrcPort,
	}
}

// localAndRemote returns (localAddr, localPort, remoteAddr, remotePort)
// for a packet given its direction: Out means we are the source.
func localAndRemote(p capture.Packet) (localAddr net.IP, localPort uint16, remoteAddr net.IP, remotePort uint16) {
	if p.Dir == capture.Out {
		return p.SrcAddr, p.SrcPort, p.DstAddr, p.DstPort
	}
	return p.DstAddr, p.DstPort, p.SrcAddr, p.SrcPort
}
