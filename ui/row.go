package ui

import (
	"time"

	"github.com/turborat/pacmon/internal/flow"
	"github.com/turborat/pacmon/internal/pacfmt"
)

// ViewMode selects what the table body shows.
type ViewMode int

const (
	ViewFlows ViewMode = iota
	ViewCorps
	ViewCorpsCity
	ViewHelp
)

var flowColumns = []column{
	{title: "LOCAL", flexShare: 0.45},
	{title: "REMOTE", flexShare: 0.55},
	{title: "%OUT", rightAlign: true},
	{title: "OUT/S", rightAlign: true},
	{title: "OUT", rightAlign: true},
	{title: "%IN", rightAlign: true},
	{title: "IN/S", rightAlign: true},
	{title: "IN", rightAlign: true},
	{title: "AGE", rightAlign: true},
	{title: "CC", rightAlign: true},
	{title: "CORP"},
}

var corpColumns = []column{
	{title: "CORP", flexShare: 0.6},
	{title: "CC", rightAlign: true},
	{title: "%TOTAL", rightAlign: true},
	{title: "RATE", rightAlign: true},
	{title: "TOTAL", rightAlign: true},
	{title: "AGE", rightAlign: true},
}

var corpCityColumns = []column{
	{title: "CORP", flexShare: 0.5},
	{title: "CC", rightAlign: true},
	{title: "CITY", flexShare: 0.15},
	{title: "%TOTAL", rightAlign: true},
	{title: "RATE", rightAlign: true},
	{title: "TOTAL", rightAlign: true},
	{title: "AGE", rightAlign: true},
}

// localLabel renders the LOCAL column: process name in angle brackets for
// flows we originated, hostname (or literal address) for everything else.
func localLabel(s *flow.Stream, resolveNames bool) string {
	if !s.Foreign && s.HasPID {
		return "<" + s.Proc + ">"
	}
	if resolveNames && s.LocalHost != "" {
		return pacfmt.TrimHost(s.LocalHost)
	}
	return s.LocalAddr.String()
}

func remoteLabel(s *flow.Stream, resolveNames bool) string {
	if resolveNames && s.RemoteHost != "" {
		return pacfmt.TrimHost(s.RemoteHost)
	}
	return s.RemoteAddr.String()
}

func serviceSuffix(name string) string {
	if name == "" {
		return ""
	}
	return ":" + name
}

// flowRow builds the raw (unpadded) cell text for one flow in its current
// sort interval. intervalSecs is the elapsed time since the last reset,
// used for the rate columns. totalSent and totalRecv are the interval-wide
// sums of outbound and inbound bytes respectively, each direction's column
// normalized against its own total rather than the combined traffic.
func flowRow(s *flow.Stream, totalSent, totalRecv uint64, now time.Time, intervalSecs float64, resolveNames bool) []string {
	var pctOut, pctIn float64
	if totalSent > 0 {
		pctOut = float64(s.BytesSentLast) / float64(totalSent)
	}
	if totalRecv > 0 {
		pctIn = float64(s.BytesRecvLast) / float64(totalRecv)
	}
	return []string{
		localLabel(s, resolveNames) + serviceSuffix(s.LocalService),
		remoteLabel(s, resolveNames) + serviceSuffix(s.RemoteService),
		pacfmt.PctFmt(pctOut),
		pacfmt.Speed(s.BytesSentLast, intervalSecs),
		pacfmt.MagFmt(s.BytesSent),
		pacfmt.PctFmt(pctIn),
		pacfmt.Speed(s.BytesRecvLast, intervalSecs),
		pacfmt.MagFmt(s.BytesRecv),
		pacfmt.FmtDuration(s.AgeSeconds(now)),
		cc(s),
		corpCell(s, 0),
	}
}

func corpRow(s *flow.Stream, total uint64, now time.Time, intervalSecs float64, withCity bool, corpWidth int) []string {
	var pctTotal float64
	if total > 0 {
		pctTotal = float64(s.BytesLast()) / float64(total)
	}
	if withCity {
		return []string{
			corpCell(s, corpWidth),
			cc(s),
			s.City,
			pacfmt.PctFmt(pctTotal),
			pacfmt.Speed(s.BytesLast(), intervalSecs),
			pacfmt.MagFmt(s.Bytes()),
			pacfmt.FmtDuration(s.AgeSeconds(now)),
		}
	}
	return []string{
		corpCell(s, corpWidth),
		cc(s),
		pacfmt.PctFmt(pctTotal),
		pacfmt.Speed(s.BytesLast(), intervalSecs),
		pacfmt.MagFmt(s.Bytes()),
		pacfmt.FmtDuration(s.AgeSeconds(now)),
	}
}

func cc(s *flow.Stream) string {
	if s.CC == "" {
		return "?"
	}
	return s.CC
}

func corpCell(s *flow.Stream, width int) string {
	name := s.Corp
	if name == "" {
		name = "?"
	}
	if width <= 0 {
		return name
	}
	return pacfmt.MassageCorp(name, width)
}
