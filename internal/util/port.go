package util

import (
	"fmt"
	"net"
)

// PortAvailable 端口当前是否可监听
func PortAvailable(port int) bool {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	_ = ln.Close()
	return true
}

// FindAvailablePort 从 startPort 起依次尝试 attempts 个端口，返回第一个可用端口；都不可用时返回 startPort
func FindAvailablePort(startPort, attempts int) int {
	for i := 0; i < attempts; i++ {
		if p := startPort + i; p <= 65535 && PortAvailable(p) {
			return p
		}
	}
	return startPort
}
