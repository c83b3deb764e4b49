// Package unix implements a transport layer for the dList RPC system using
// Unix domain sockets. It provides the same protocol as the tcp package for
// processes running on the same machine.
//
// Key Components:
//
//   - clientConnector: Establishes connections using Unix domain sockets
//
//   - serverConnector: Creates Unix socket listeners, removing a stale socket
//     file left behind by a previous run
package unix
