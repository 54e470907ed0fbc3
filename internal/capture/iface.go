package capture

import "net"

// Iface is one local interface (address, netmask) pair used for direction
// classification.
type Iface struct {
	Addr net.IP
	Mask net.IPMask
}

// LocalInterfaces enumerates the host's IPv4/IPv6 interface addresses,
// skipping loopback.
func LocalInterfaces() ([]Iface, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil, err
	}
	var out []Iface
	for _, a := range addrs {
		ipnet, ok := a.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() {
			continue
		}
		out = append(out, Iface{Addr: ipnet.IP, Mask: ipnet.Mask})
	}
	return out, nil
}

// sameSubnet reports whether addr and ifaceAddr share the same network
// under mask.
func sameSubnet(addr, ifaceAddr net.IP, mask net.IPMask) bool {
	a4, i4 := addr.To4(), ifaceAddr.To4()
	if a4 != nil && i4 != nil {
		return a4.Mask(mask).Equal(i4.Mask(mask))
	}
	a16, i16 := addr.To16(), ifaceAddr.To16()
	if a16 == nil || i16 == nil {
		return false
	}
	return a16.Mask(mask).Equal(i16.Mask(mask))
}

// classify applies the direction/foreign priority order, per interface in
// turn: an exact interface-address match on either endpoint wins first
// (foreign=false); failing that, same-subnet
// membership marks the packet "foreign" (seen in promiscuous mode from
// another LAN host); if no interface matches either endpoint at all, the
// packet is dropped (ok=false). local_traffic is computed independently:
// both endpoints lie within some interface's subnet.
func classify(ifaces []Iface, src, dst net.IP) (dir Dir, foreign, localTraffic, ok bool) {
	for _, ifc := range ifaces {
		switch {
		case ifc.Addr.Equal(src):
			dir, foreign, ok = Out, false, true
		case ifc.Addr.Equal(dst):
			dir, foreign, ok = In, false, true
		}
		if ok {
			break
		}
	}
	if !ok {
		for _, ifc := range ifaces {
			switch {
			case sameSubnet(src, ifc.Addr, ifc.Mask):
				dir, foreign, ok = Out, true, true
			case sameSubnet(dst, ifc.Addr, ifc.Mask):
				dir, foreign, ok = In, true, true
			}
			if ok {
				break
			}
		}
	}
	if !ok {
		return 0, false, false, false
	}

	srcLocal, dstLocal := false, false
	for _, ifc := range ifaces {
		if sameSubnet(src, ifc.Addr, ifc.Mask) {
			srcLocal = true
		}
		if sameSubnet(dst, ifc.Addr, ifc.Mask) {
			dstLocal = true
		}
	}
	localTraffic = srcLocal && dstLocal
	return dir, foreign, localTraffic, true
}
