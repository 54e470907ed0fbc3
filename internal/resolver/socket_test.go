package resolver

import (
	"net"
	"os"
	"runtime"
	"testing"
)

func TestEncodeKey_IPv4(t *testing.T) {
	cases := []struct {
		ip   string
		port uint16
		want string
	}{
		{"192.168.1.91", 0, "5B01A8C0:0000"},
		{"192.168.1.109", 22, "6D01A8C0:0016"},
		{"127.0.0.1", 42431, "0100007F:A5BF"},
	}
	for _, c := range cases {
		got := encodeKey(net.ParseIP(c.ip), c.port)
		if got != c.want {
			t.Errorf("encodeKey(%s, %d) = %q; want %q", c.ip, c.port, got, c.want)
		}
	}
}

func TestSocketToPIDRoundTrip_TCP(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("requires /proc (linux only)")
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	addr := ln.Addr().(*net.TCPAddr)
	inode, found := resolveSocketInode(TCP, net.ParseIP("127.0.0.1"), uint16(addr.Port))
	if !found {
		t.Skip("could not resolve socket inode in this sandbox (requires /proc/net/tcp visibility)")
	}

	pid, ok := pidForSocketInode(inode, nil)
	if !ok {
		t.Skip("could not resolve owning pid in this sandbox (requires /proc/*/fd visibility)")
	}
	if pid != os.Getpid() {
		t.Errorf("resolved pid %d; want test process pid %d", pid, os.Getpid())
	}
}
