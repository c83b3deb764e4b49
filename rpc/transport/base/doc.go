// Package base provides the foundation for the stream transports of dList,
// implementing the wire protocol independent of the specific network (TCP, Unix
// sockets). It is extended with protocol-specific connectors.
//
// Wire Protocol:
//
//	Request  := LENGTH (4 bytes, uint32, big endian) || PAYLOAD (LENGTH bytes)
//	Response := LENGTH (4 bytes, uint32, big endian) || PAYLOAD (LENGTH bytes)
//
// The receiver reads exactly the 4 header bytes and then exactly LENGTH payload
// bytes, so messages of any size survive partial reads. A frame that ends early or
// announces more than the configured MaxFrameSize is a malformed message.
// Every connection carries exactly one exchange: no pipelining, no multiplexing.
//
// Key Components:
//
//   - serverTransport: Owns the listener and runs the accept loop. Every accepted
//     connection is handed to its own goroutine which moves through the states
//     AwaitingRequest -> Dispatching -> SendingResponse -> Closed. The connection is
//     closed on every path; read errors, timeouts and undecodable requests close it
//     without a response. Accept errors are logged and the loop keeps running.
//     There is no cap on concurrent connections.
//
//   - clientTransport: Opens a fresh connection per call, bounded by the configured
//     timeout. Connect failures and timeouts are transient and retried with an
//     incremental backoff up to RetryCount attempts; malformed responses fail
//     immediately. Exhausted retries are reported as common.ErrCallFailed.
//
// Thread Safety:
//
//	All public methods are thread-safe. The client holds no per-call state and
//	the server creates a dedicated goroutine for each connection.
package base
