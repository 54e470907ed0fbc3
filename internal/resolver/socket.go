package resolver

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"
)

// Transport tags a socket table / flow as TCP or UDP.
type Transport int

const (
	TCP Transport = iota
	UDP
)

func (t Transport) String() string {
	if t == UDP {
		return "UDP"
	}
	return "TCP"
}

// resolveSocketInode scans the appropriate /proc/net/{tcp,tcp6,udp,udp6}
// table for a row whose local endpoint matches (addr, port), returning its
// socket inode. The table is chosen by transport and address family.
func resolveSocketInode(transport Transport, localAddr net.IP, localPort uint16) (uint64, bool) {
	path := procNetPath(transport, localAddr)
	f, err := os.Open(path)
	if err != nil {
		return 0, false
	}
	defer f.Close()

	key := encodeKey(localAddr, localPort)
	scanner := bufio.NewScanner(f)
	scanner.Scan() // header line
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 10 {
			continue
		}
		if fields[1] == key {
			inode, err := strconv.ParseUint(fields[9], 10, 64)
			if err != nil {
				continue
			}
			return inode, true
		}
	}
	return 0, false
}

func procNetPath(transport Transport, addr net.IP) string {
	v6 := addr.To4() == nil
	switch {
	case transport == TCP && !v6:
		return "/proc/net/tcp"
	case transport == TCP && v6:
		return "/proc/net/tcp6"
	case transport == UDP && !v6:
		return "/proc/net/udp"
	default:
		return "/proc/net/udp6"
	}
}

// encodeKey builds the hex "ADDR:PORT" key /proc/net/{tcp,udp}* use for the
// local endpoint: address octets in reverse (little-endian) order,
// concatenated with the big-endian port, both uppercase hex, e.g.
// 192.168.1.91:22 -> "5B01A8C0:0016".
func encodeKey(addr net.IP, port uint16) string {
	var octets []byte
	if v4 := addr.To4(); v4 != nil {
		octets = []byte(v4)
	} else {
		octets = []byte(addr.To16())
	}
	var sb strings.Builder
	if len(octets) == 4 {
		for i := len(octets) - 1; i >= 0; i-- {
			fmt.Fprintf(&sb, "%02X", octets[i])
		}
	} else {
		// IPv6: reverse in 4-byte (word) chunks, matching the kernel's
		// per-word byte-swapped representation.
		for w := 0; w < 4; w++ {
			word := octets[w*4 : w*4+4]
			for i := len(word) - 1; i >= 0; i-- {
				fmt.Fprintf(&sb, "%02X", word[i])
			}
		}
	}
	sb.WriteByte(':')
	fmt.Fprintf(&sb, "%04X", port)
	return sb.String()
}

// pidForSocketInode walks /proc/*/fd/* looking for a symlink target equal
// to "socket:[<inode>]"; returns the first matching pid. Permission-denied
// and not-found entries are silently skipped during the walk; other errors
// are returned via the logging callback and skipping continues.
func pidForSocketInode(inode uint64, logf func(string)) (int, bool) {
	target := fmt.Sprintf("socket:[%d]", inode)

	entries, err := os.ReadDir("/proc")
	if err != nil {
		if logf != nil {
			logf(fmt.Sprintf("resolver: read /proc: %v", err))
		}
		return 0, false
	}

	for _, e := range entries {
		pid, err := strconv.Atoi(e.Name())
		if err != nil || pid <= 0 {
			continue
		}
		fdDir := filepath.Join("/proc", e.Name(), "fd")
		fds, err := os.ReadDir(fdDir)
		if err != nil {
			if isSkippable(err) {
				continue
			}
			if logf != nil {
				logf(fmt.Sprintf("resolver: read %s: %v", fdDir, err))
			}
			continue
		}
		for _, fd := range fds {
			link, err := os.Readlink(filepath.Join(fdDir, fd.Name()))
			if err != nil {
				if isSkippable(err) {
					continue
				}
				if logf != nil {
					logf(fmt.Sprintf("resolver: readlink %s: %v", fd.Name(), err))
				}
				continue
			}
			if link == target {
				return pid, true
			}
		}
	}
	return 0, false
}

// isSkippable reports whether err is a permission-denied or not-found
// failure encountered while walking another process's fd directory --
// both are routine (the process may have exited, or be unreadable to us)
// and are silently skipped rather than logged.
func isSkippable(err error) bool {
	return errors.Is(err, unix.EACCES) || errors.Is(err, syscall.EACCES) ||
		errors.Is(err, unix.ENOENT) || errors.Is(err, syscall.ENOENT) ||
		os.IsPermission(err) || os.IsNotExist(err)
}
