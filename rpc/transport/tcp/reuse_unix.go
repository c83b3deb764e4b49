//go:build unix

package tcp

import (
	"golang.org/x/sys/unix"
	"syscall"
)

// reuseAddrControl sets SO_REUSEADDR on the listening socket
func reuseAddrControl(_, _ string, c syscall.RawConn) error {
	var sockErr error
	err := c.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	})
	if err != nil {
		return err
	}
	return sockErr
}
