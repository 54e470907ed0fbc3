package capture

import (
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"

	"github.com/turborat/pacmon/logger"
)

const ringBufferBytes = 1_000_000_000 // 1GB, matching the original's capture buffer size

// Capture runs the dedicated producer goroutine. Packets is the
// single-producer channel the flow aggregator drains; the four counters
// (dropped, queueFull, depth, noInterfaceMatch) are lock-free atomics and,
// with the channel, the only state visible to the consumer.
type Capture struct {
	Packets chan Packet

	dropped          atomic.Uint64
	queueFull        atomic.Uint64
	depth            atomic.Uint64
	noInterfaceMatch atomic.Uint64

	ifaces []Iface
	log    *logger.Logger
}

// packetQueueSlack is the channel capacity behind Packets. The producer
// never blocks on a full queue -- handle() drops the packet and counts it
// instead -- so this is slack against scheduling jitter between the
// capture goroutine and the consumer, not a backpressure threshold.
const packetQueueSlack = 65536

// New builds a Capture, discovering local interface addresses for
// direction classification; the device is chosen later, in Start. The
// producer never blocks on Packets: a full queue causes handle() to drop
// the packet and count it in QueueFull rather than stall the capture
// goroutine.
func New(log *logger.Logger) (*Capture, error) {
	ifaces, err := LocalInterfaces()
	if err != nil {
		return nil, fmt.Errorf("capture: enumerate interfaces: %w", err)
	}
	return &Capture{
		Packets: make(chan Packet, packetQueueSlack),
		ifaces:  ifaces,
		log:     log,
	}, nil
}

// FirstDevice returns the first capture-capable device, matching the
// original's "look up first device" default interface selection.
func FirstDevice() (string, error) {
	devs, err := pcap.FindAllDevs()
	if err != nil {
		return "", fmt.Errorf("capture: FindAllDevs: %w", err)
	}
	for _, d := range devs {
		if len(d.Addresses) > 0 {
			return d.Name, nil
		}
	}
	return "", fmt.Errorf("capture: no capture-capable device found")
}

// Start opens device in promiscuous, immediate-mode with a 1GB ring
// buffer and runs the capture loop on a dedicated goroutine until done is
// closed. A capture-read error is logged and the loop continues; a
// decode panic is recovered, logged, and ends the goroutine. Nothing else
// is signalled: Packets stays open and simply receives no more packets.
func (c *Capture) Start(device string, done <-chan struct{}) error {
	inactive, err := pcap.NewInactiveHandle(device)
	if err != nil {
		return fmt.Errorf("capture: inactive handle: %w", err)
	}
	defer inactive.CleanUp()

	_ = inactive.SetPromisc(true)
	_ = inactive.SetImmediateMode(true)
	_ = inactive.SetBufferSize(ringBufferBytes)
	_ = inactive.SetSnapLen(65535)
	_ = inactive.SetTimeout(100 * time.Millisecond)

	handle, err := inactive.Activate()
	if err != nil {
		return fmt.Errorf("capture: activate %s: %w", device, err)
	}

	go c.loop(handle, done)
	return nil
}

func (c *Capture) loop(handle *pcap.Handle, done <-chan struct{}) {
	defer handle.Close()
	defer func() {
		if r := recover(); r != nil {
			c.logf("capture: panic in capture loop: %v", r)
		}
	}()

	src := gopacket.NewPacketSource(handle, handle.LinkType())
	src.DecodeOptions = gopacket.DecodeOptions{Lazy: true, NoCopy: true}
	packets := src.Packets()

	for {
		select {
		case <-done:
			return
		case pkt, ok := <-packets:
			if !ok {
				return
			}
			c.handle(pkt)
			c.recordDrops(handle)
		}
	}
}

func (c *Capture) handle(pkt gopacket.Packet) {
	if pkt.ErrorLayer() != nil {
		return // non-TCP/UDP or malformed frame: silently dropped
	}

	desc, ok := parse(pkt)
	if !ok {
		return
	}

	dir, foreign, localTraffic, ok := classify(c.ifaces, desc.SrcAddr, desc.DstAddr)
	if !ok {
		c.noInterfaceMatch.Add(1)
		c.logf("capture: ??: %s >> %s :: no matching interface", desc.SrcAddr, desc.DstAddr)
		return
	}
	desc.Dir = dir
	desc.Foreign = foreign
	desc.LocalTraffic = localTraffic

	select {
	case c.Packets <- desc:
		c.depth.Add(1)
	default:
		c.queueFull.Add(1)
	}
}

// parse extracts the flow 5-tuple and payload length from an Ethernet
// frame carrying IPv4/IPv6 + TCP/UDP. Non-IP or non-TCP/UDP frames yield
// ok=false and are dropped silently.
func parse(pkt gopacket.Packet) (Packet, bool) {
	var desc Packet
	desc.TS = pkt.Metadata().Timestamp
	if desc.TS.IsZero() {
		desc.TS = time.Now()
	}

	var srcIP, dstIP net.IP
	if ip4 := pkt.Layer(layers.LayerTypeIPv4); ip4 != nil {
		l := ip4.(*layers.IPv4)
		srcIP, dstIP = l.SrcIP, l.DstIP
	} else if ip6 := pkt.Layer(layers.LayerTypeIPv6); ip6 != nil {
		l := ip6.(*layers.IPv6)
		srcIP, dstIP = l.SrcIP, l.DstIP
	} else {
		return desc, false
	}

	switch {
	case pkt.Layer(layers.LayerTypeTCP) != nil:
		t := pkt.Layer(layers.LayerTypeTCP).(*layers.TCP)
		desc.Transport = TCP
		desc.SrcPort, desc.DstPort = uint16(t.SrcPort), uint16(t.DstPort)
		desc.Len = uint32(len(t.Payload))
	case pkt.Layer(layers.LayerTypeUDP) != nil:
		u := pkt.Layer(layers.LayerTypeUDP).(*layers.UDP)
		desc.Transport = UDP
		desc.SrcPort, desc.DstPort = uint16(u.SrcPort), uint16(u.DstPort)
		desc.Len = uint32(len(u.Payload))
	default:
		return desc, false
	}

	desc.SrcAddr, desc.DstAddr = srcIP, dstIP
	return desc, true
}

func (c *Capture) recordDrops(handle *pcap.Handle) {
	stats, err := handle.Stats()
	if err != nil {
		c.logf("capture: stats: %v", err)
		return
	}
	total := uint64(stats.PacketsDropped + stats.PacketsIfDropped)
	for {
		cur := c.dropped.Load()
		if total <= cur {
			return
		}
		if c.dropped.CompareAndSwap(cur, total) {
			return
		}
	}
}

func (c *Capture) logf(format string, args ...any) {
	if c.log != nil {
		c.log.Printf(format, args...)
	}
}

// PacketsDropped returns the kernel's monotone count of frames dropped at
// the capture boundary.
func (c *Capture) PacketsDropped() uint64 { return c.dropped.Load() }

// QueueFull returns the count of packets dropped because the consumer
// fell far enough behind to fill packetQueueSlack -- tracked separately
// from kernel drops since it indicates a userspace bottleneck, not a
// capture-boundary one.
func (c *Capture) QueueFull() uint64 { return c.queueFull.Load() }

// NoInterfaceMatch returns the count of packets discarded because no
// interface matched either endpoint -- tracked separately from kernel
// drops so the two failure modes don't mask each other in the footer.
func (c *Capture) NoInterfaceMatch() uint64 { return c.noInterfaceMatch.Load() }

// QueueDepth returns the current outstanding-packet depth without
// mutating it, for footer display.
func (c *Capture) QueueDepth() uint64 { return c.depth.Load() }

// DecrementAndGetQueueDepth is called by the consumer on dequeue; it
// returns the depth prior to decrementing.
func (c *Capture) DecrementAndGetQueueDepth() uint64 {
	for {
		cur := c.depth.Load()
		if cur == 0 {
			return 0
		}
		if c.depth.CompareAndSwap(cur, cur-1) {
			return cur
		}
	}
}
