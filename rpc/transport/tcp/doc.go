// Package tcp implements TCP socket-based transport for the dList RPC system.
// It provides concrete implementations of the base package's connector
// interfaces for TCP connections.
//
// This package builds on the base package's transport functionality, inheriting its
// length-prefixed framing, one-exchange-per-connection server and retrying client.
// See the base package documentation for details.
//
// Key Components:
//
//   - clientConnector: TCP-specific implementation of base.IClientConnector,
//     dialing with the per-attempt deadline.
//
//   - serverConnector: TCP-specific implementation of base.IServerConnector.
//     The listening socket has SO_REUSEADDR set so a restarted server can bind
//     its port immediately.
package tcp
