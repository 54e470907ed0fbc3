package resolver

import (
	"bufio"
	"os"
	"regexp"
	"strconv"
)

var servicesLine = regexp.MustCompile(`^(\S+)\s+(\d+)/`)

// loadServices parses /etc/services into a port->name table, matching the
// "^(\S+)\s+(\d+)/.*" line format. Missing or unreadable files yield an
// empty table; ResolveService then falls back to the decimal port for
// every query.
func loadServices(path string) map[uint16]string {
	out := make(map[uint16]string)
	f, err := os.Open(path)
	if err != nil {
		return out
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		m := servicesLine.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		port, err := strconv.ParseUint(m[2], 10, 16)
		if err != nil {
			continue
		}
		if _, exists := out[uint16(port)]; !exists {
			out[uint16(port)] = m[1]
		}
	}
	return out
}
