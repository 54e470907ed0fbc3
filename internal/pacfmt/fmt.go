// Package pacfmt implements the small set of exact-format text helpers used
// by the TUI renderer: byte-count magnitude
// formatting, percentages, durations, transfer speed, and hostname
// trimming.
package pacfmt

import (
	"fmt"
	"math"
	"strings"
)

// MagFmt scales a byte count to b/k/m/g suffixes. Zero renders "-"; other
// values get one fractional digit when the scaled value would round below
// 10, otherwise an integer.
func MagFmt(value uint64) string {
	if value == 0 {
		return "-"
	}
	switch {
	case value >= 1_000_000_000:
		return scale(value, 1_000_000_000, "g")
	case value >= 1_000_000:
		return scale(value, 1_000_000, "m")
	case value >= 1_000:
		return scale(value, 1_000, "k")
	default:
		return scale(value, 1, "b")
	}
}

func scale(value uint64, divisor uint64, suffix string) string {
	fp := float64(value) / float64(divisor)
	scaled := uint64(fp + 0.5)
	if scaled < 10 {
		return fmt.Sprintf("%.1f%s", fp, suffix)
	}
	return fmt.Sprintf("%d%s", scaled, suffix)
}

// PctFmt formats a 0-1 ratio as a percentage. Zero or NaN renders "-";
// below 0.1% renders "~0%"; below 1% renders one decimal place; exactly
// 100% renders "***"; otherwise an integer percent.
func PctFmt(ratio float64) string {
	if ratio == 0 || math.IsNaN(ratio) {
		return "-"
	}
	pct := ratio * 100
	if pct < 0.1 {
		return "~0%"
	}
	if pct < 1 {
		return fmt.Sprintf(".%d%%", int(pct*10))
	}
	if pct == 100 {
		return "***"
	}
	return fmt.Sprintf("%d%%", int(pct))
}

// FmtDuration renders a duration in whole seconds as "." (under one second),
// "Ns" (under 100s), "Nm" (under 100 minutes), or "Nh" otherwise.
func FmtDuration(secs uint64) string {
	switch {
	case secs < 1:
		return "."
	case secs < 100:
		return fmt.Sprintf("%ds", secs)
	case secs < 100*60:
		return fmt.Sprintf("%dm", secs/60)
	default:
		return fmt.Sprintf("%dh", secs/3600)
	}
}

// Speed formats a byte count transferred over the given number of seconds
// as a per-second rate, e.g. "11k/s". A zero interval is treated as the raw
// byte count per second (no division).
func Speed(bytes uint64, secs float64) string {
	if secs <= 0 {
		return MagFmt(bytes) + "/s"
	}
	return MagFmt(uint64(float64(bytes)/secs)) + "/s"
}

// TrimHost reduces hostnames longer than 15 characters to their last two
// dotted labels, e.g. "a.very.long.hostname.example.com" -> "example.com".
func TrimHost(host string) string {
	if len(host) <= 15 {
		return host
	}
	dots := 0
	for i := len(host) - 1; i >= 0; i-- {
		if host[i] == '.' {
			dots++
			if dots == 2 {
				return host[i+1:]
			}
		}
	}
	return host
}

// MassageCorp truncates a corp label to targetWidth and strips trailing
// space/comma/dash punctuation left over from the truncation.
func MassageCorp(corp string, targetWidth int) string {
	if targetWidth > 0 && len(corp) > targetWidth {
		corp = corp[:targetWidth]
	}
	return strings.TrimRight(corp, " ,-")
}
