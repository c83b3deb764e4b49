// Package transport defines the interfaces and abstractions for RPC communication
// in dList. It provides a common contract that all transport implementations must
// fulfill, enabling protocol-agnostic communication.
//
// The package focuses on:
//   - Defining clear interfaces for client and server transport layers
//   - Enabling multiple transport implementations (TCP, Unix sockets)
//
// Key Components:
//
//   - IRPCClientTransport: Interface for client-side transport implementations that
//     send one request per call and apply the retry policy.
//
//   - IRPCServerTransport: Interface for server-side transport implementations that
//     accept connections and hand every request to the registered handler.
//
//   - ServerHandleFunc: Function type for request handling callbacks.
package transport
