package util

import (
	"net"
	"testing"
)

func TestFindAvailablePortSkipsBusyPort(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })
	busy := ln.Addr().(*net.TCPAddr).Port

	if PortAvailable(busy) {
		t.Fatalf("port %d reported available while in use", busy)
	}
	if got := FindAvailablePort(busy, 1); got != busy {
		t.Fatalf("single attempt got=%d want=%d", got, busy)
	}
}
