// Package flow implements the flow aggregator: two dictionaries, keyed by
// flow-key and corp-key, each mapping to a Stream record, enriched on
// first sight via the resolver and tallied on every subsequent packet.
package flow

import (
	"sort"

	"github.com/turborat/pacmon/internal/capture"
	"github.com/turborat/pacmon/internal/resolver"
)

// SortOrder selects how Snapshot orders its rows.
type SortOrder int

const (
	// SortByActivity ranks by delta bytes desc, then TSLast desc, then
	// cumulative bytes desc -- the default "most recently active" order.
	SortByActivity SortOrder = iota
	// SortByCumulative ranks by cumulative bytes desc, then TSLast desc.
	SortByCumulative
)

// Aggregator owns the flow and corp dictionaries and the resolver that
// enriches new entries. It is single-owner: it lives inside the TUI
// model and is only ever touched from the bubbletea event loop goroutine.
type Aggregator struct {
	resolver *resolver.Resolver
	flows    map[Key]*Stream
	corps    map[string]*Stream
}

// New builds an Aggregator backed by the given resolver.
func New(r *resolver.Resolver) *Aggregator {
	return &Aggregator{
		resolver: r,
		flows:    make(map[Key]*Stream),
		corps:    make(map[string]*Stream),
	}
}

// Tally processes one packet descriptor: get-or-create the flow record
// (resolving on creation), tally it, then do the same for the coarser
// corp-key record.
func (a *Aggregator) Tally(p capture.Packet) {
	key := KeyFor(p)
	fs, ok := a.flows[key]
	if !ok {
		fs = newStream(p, a.resolver)
		a.flows[key] = fs
	}
	fs.tally(p)

	corpKey := a.corpKeyFor(p, fs)
	cs, ok := a.corps[corpKey]
	if !ok {
		cs = newStream(p, a.resolver)
		a.corps[corpKey] = cs
	}
	cs.tally(p)
}

// corpKeyFor builds the corp-key for a packet: the resolved company name
// if the flow record already has one, else the remote host's reverse-DNS
// name as a fallback.
func (a *Aggregator) corpKeyFor(p capture.Packet, fs *Stream) string {
	if fs.Corp != "" && fs.Corp != "-" && fs.Corp != "?" {
		return fs.Corp
	}
	return fs.RemoteHost
}

// Len returns the number of distinct flows currently tracked.
func (a *Aggregator) Len() int { return len(a.flows) }

// TotalBytes sums cumulative bytes across every tracked flow, for the help
// overlay's raw counter line.
func (a *Aggregator) TotalBytes() uint64 {
	var total uint64
	for _, s := range a.flows {
		total += s.Bytes()
	}
	return total
}

// Lookup returns the live flow record for a packet's key without cloning
// or resetting delta counters -- used by the dump mode (component F) to
// print one line per packet without paying the render-tick snapshot cost.
func (a *Aggregator) Lookup(p capture.Packet) *Stream {
	return a.flows[KeyFor(p)]
}

// Snapshot clones and sorts the current flow records by the given order,
// then resets every original record's delta counters, so each render
// tick sees only the bytes transferred since the last one. The returned
// slice is safe for the
// caller to hold/sort/render without racing further tallying (there is no
// concurrent tallying in this single-threaded consumer, but cloning keeps
// the snapshot stable against future mutation regardless).
func (a *Aggregator) Snapshot(order SortOrder) []*Stream {
	return snapshotAndReset(a.flows, order)
}

// CorpSnapshot is Snapshot's counterpart for the corps view.
func (a *Aggregator) CorpSnapshot(order SortOrder) []*Stream {
	return snapshotAndReset(a.corps, order)
}

// ResetDeltas zeros every record's delta counters in both the flow and
// corp dictionaries, without cloning or sorting. Snapshot/CorpSnapshot
// already reset whichever dictionary they just read; ResetDeltas is for
// the dictionary belonging to the view *not* rendered this tick, so its
// delta counters don't silently accumulate across ticks spent in the
// other view.
func (a *Aggregator) ResetDeltas() {
	for _, s := range a.flows {
		s.ResetStats()
	}
	for _, s := range a.corps {
		s.ResetStats()
	}
}

func snapshotAndReset[K comparable](m map[K]*Stream, order SortOrder) []*Stream {
	out := make([]*Stream, 0, len(m))
	for _, s := range m {
		out = append(out, s.clone())
		s.ResetStats()
	}
	sortStreams(out, order)
	return out
}

func sortStreams(streams []*Stream, order SortOrder) {
	sort.Slice(streams, func(i, j int) bool {
		a, b := streams[i], streams[j]
		switch order {
		case SortByCumulative:
			if a.Bytes() != b.Bytes() {
				return a.Bytes() > b.Bytes()
			}
			return a.TSLast.After(b.TSLast)
		default:
			if a.BytesLast() != b.BytesLast() {
				return a.BytesLast() > b.BytesLast()
			}
			if !a.TSLast.Equal(b.TSLast) {
				return a.TSLast.After(b.TSLast)
			}
			return a.Bytes() > b.Bytes()
		}
	})
}
