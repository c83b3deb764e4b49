// Package rpc provides the remote procedure call layer of dList. It carries
// commands from clients to the server holding the shared list and the results back.
//
// The package is organized into several subpackages:
//
//   - common: Core data structures and utilities used across the RPC system,
//     including the Message protocol, configuration structures, the error kinds and logging.
//
//   - transport: Network communication with length-prefixed frames, one request and one
//     response per connection, with pluggable connectors (TCP, Unix sockets).
//
//   - serializer: Message serialization with multiple format options (Binary, JSON, GOB, Proto)
//     for converting between Message objects and byte arrays.
//
//   - client: The RPCList client with retries and a typed result.
//
//   - server: The command dispatcher and the RPCServer tying transport, serializer and list together.
package rpc
