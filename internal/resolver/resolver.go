// Package resolver resolves a socket's owning process, a remote address's
// reverse-DNS name, a port's service name, and (via internal/ipdata) a
// remote address's owning company, country, and city. PID, process-name and
// reverse-DNS lookups are memoised in caches that never expire within the
// process's lifetime -- bounded by the number of distinct flows observed,
// not by a TTL. Service names come from a table loaded once at startup;
// company, country and city lookups go to the ipdata index on every call
// and are not cached.
//
// Resolution reads /proc-table state directly, in the idiom of a
// socket-owner/process-name lookup rather than a separate daemon.
package resolver

import (
	"net"
	"strconv"
	"time"

	"github.com/turborat/pacmon/internal/addr"
	"github.com/turborat/pacmon/internal/ipdata"
	"github.com/turborat/pacmon/logger"
)

type socketKey struct {
	transport Transport
	addr      string
	port      uint16
}

// Resolver owns the four name caches plus a reference to the preloaded
// ownership dataset (internal/ipdata). It is single-owner, single-threaded:
// it lives inside the flow aggregator on the consumer side and is never
// shared across goroutines.
type Resolver struct {
	log  *logger.Logger
	data *ipdata.Data

	pidCache  map[socketKey]pidEntry
	procCache map[int]procEntry
	hostCache map[string]string
	services  map[uint16]string
}

type pidEntry struct {
	pid int
	ok  bool
}

type procEntry struct {
	name string
	ok   bool
}

// New builds a Resolver over the given ownership dataset. log may be nil,
// in which case resolution proceeds silently.
func New(data *ipdata.Data, log *logger.Logger) *Resolver {
	return &Resolver{
		log:       log,
		data:      data,
		pidCache:  make(map[socketKey]pidEntry),
		procCache: make(map[int]procEntry),
		hostCache: make(map[string]string),
		services:  loadServices("/etc/services"),
	}
}

func (r *Resolver) logf(format string, args ...any) {
	if r.log != nil {
		r.log.Printf(format, args...)
	}
}

// ResolvePID resolves the owning process id of a local (transport, addr,
// port) socket, memoised.
func (r *Resolver) ResolvePID(transport Transport, localAddr net.IP, localPort uint16) (int, bool) {
	key := socketKey{transport: transport, addr: localAddr.String(), port: localPort}
	if e, ok := r.pidCache[key]; ok {
		return e.pid, e.ok
	}
	t0 := time.Now()
	inode, found := resolveSocketInode(transport, localAddr, localPort)
	pid, ok := 0, false
	if found {
		pid, ok = pidForSocketInode(inode, func(msg string) { r.logf("%s", msg) })
	}
	r.logf("resolver: ResolvePID(%s,%s,%d) took %s", transport, localAddr, localPort, time.Since(t0))
	r.pidCache[key] = pidEntry{pid: pid, ok: ok}
	return pid, ok
}

// ResolveProc resolves a pid to its short process name, memoised.
func (r *Resolver) ResolveProc(pid int) (string, bool) {
	if e, ok := r.procCache[pid]; ok {
		return e.name, e.ok
	}
	name, ok := procForPID(pid)
	r.procCache[pid] = procEntry{name: name, ok: ok}
	return name, ok
}

// ResolveHost resolves the reverse-DNS name of addr, memoised; on failure
// (or no PTR record) it returns the textual address.
func (r *Resolver) ResolveHost(ip net.IP) string {
	key := ip.String()
	if host, ok := r.hostCache[key]; ok {
		return host
	}
	names, err := net.LookupAddr(key)
	host := key
	if err == nil && len(names) > 0 {
		host = trimTrailingDot(names[0])
	}
	r.hostCache[key] = host
	return host
}

func trimTrailingDot(s string) string {
	if len(s) > 0 && s[len(s)-1] == '.' {
		return s[:len(s)-1]
	}
	return s
}

// ResolveService returns the service name for port from the preloaded
// /etc/services table, or the decimal port string if unknown.
func (r *Resolver) ResolveService(port uint16) string {
	if name, ok := r.services[port]; ok {
		return name
	}
	return strconv.Itoa(int(port))
}

// ResolveCompany delegates to the ownership index, returning "-" (the
// sentinel for "unresolved") when there is no covering entry.
func (r *Resolver) ResolveCompany(ip net.IP) string {
	name, ok := r.data.Corps.Lookup(addr.FromIP(ip))
	if !ok {
		return "-"
	}
	return name
}

// ResolveCC delegates to the location index, returning "?" when there is
// no covering entry.
func (r *Resolver) ResolveCC(ip net.IP) string {
	loc, ok := r.data.Locations.Lookup(addr.FromIP(ip))
	if !ok {
		return "?"
	}
	return loc.Country
}

// ResolveCity delegates to the location index, returning "" when there is
// no covering entry.
func (r *Resolver) ResolveCity(ip net.IP) string {
	loc, ok := r.data.Locations.Lookup(addr.FromIP(ip))
	if !ok {
		return ""
	}
	return loc.City
}
