package cmd

import (
	"bufio"
	"fmt"
	"io"
	"regexp"

	"github.com/google/uuid"

	"github.com/turborat/pacmon/internal/addr"
)

var filterLine = regexp.MustCompile(`^([^,]+),(.*)$`)

// runFilter implements the CIDR filter pipeline: each stdin line of the
// form "cidr,rest" has its CIDR parsed into a
// 128-bit integer and re-emitted as "addr,cidr,rest". Lines that don't
// match the pattern, or whose CIDR fails to parse, are reported on stderr
// and counted; the count becomes the caller's negative exit status.
func runFilter(in io.Reader, out, errOut io.Writer) (unparseable int, err error) {
	fmt.Fprintf(errOut, "pacmon: filter run %s\n", uuid.NewString()[:8])

	scanner := bufio.NewScanner(in)
	w := bufio.NewWriter(out)
	defer w.Flush()

	for scanner.Scan() {
		line := scanner.Text()
		m := filterLine.FindStringSubmatch(line)
		if m == nil {
			fmt.Fprintf(errOut, "pacmon: unparseable line: %q\n", line)
			unparseable++
			continue
		}
		cidr, rest := m[1], m[2]
		base, _, parseErr := addr.ParseCIDR(cidr)
		if parseErr != nil {
			fmt.Fprintf(errOut, "pacmon: bad CIDR %q: %v\n", cidr, parseErr)
			unparseable++
			continue
		}
		fmt.Fprintf(w, "%s,%s,%s\n", base.String(), cidr, rest)
	}
	if scanErr := scanner.Err(); scanErr != nil {
		return unparseable, fmt.Errorf("cmd: read stdin: %w", scanErr)
	}
	return unparseable, nil
}
