package resolver

import (
	"os"
	"regexp"
	"strconv"
	"strings"
)

var cmdlinePrefix = regexp.MustCompile(`^.*/`)

// procForPID reads /proc/<pid>/cmdline and derives a short process name:
// the path prefix is stripped, then any colon-separated suffix and
// trailing arguments are dropped.
func procForPID(pid int) (string, bool) {
	data, err := os.ReadFile(procPath(pid, "cmdline"))
	if err != nil {
		return "", false
	}
	raw := strings.TrimRight(string(data), "\x00")
	if raw == "" {
		return "", false
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == 0 || r == ' ' })
	if len(parts) == 0 {
		return "", false
	}
	name := cmdlinePrefix.ReplaceAllString(parts[0], "")
	if i := strings.IndexByte(name, ':'); i >= 0 {
		name = name[:i]
	}
	if i := strings.IndexByte(name, ' '); i >= 0 {
		name = name[:i]
	}
	return name, true
}

func procPath(pid int, leaf string) string {
	return "/proc/" + strconv.Itoa(pid) + "/" + leaf
}
