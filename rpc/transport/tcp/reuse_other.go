//go:build !unix

package tcp

import "syscall"

// reuseAddrControl is a no-op on platforms without SO_REUSEADDR semantics
func reuseAddrControl(_, _ string, _ syscall.RawConn) error {
	return nil
}
