// Package client implements the RPC client of a dList server.
//
// Key Components:
//
//   - NewRPCList: Factory function that creates a client for a single server endpoint.
//     Each call opens a new connection, sends one framed request and waits for one framed
//     response (see package transport/base for retries and timeouts).
//
//   - RPCList.Call: Invokes a command by name. The server answers commands it does not
//     know with a normal string result starting with "Unknown command:".
//
//   - RPCList.Append and RPCList.Get: Typed wrappers for the two commands of the server.
//
// Errors:
//
//	Failures are classified with the kinds of the common package. Connection failures
//	and timeouts are retried by the transport; once all attempts are used up the call
//	fails with common.ErrCallFailed. A response that cannot be decoded fails at once with
//	common.ErrMalformedMessage. If the server appended a value but could not write it to
//	disk, Append returns the list and an error matching common.ErrPersistence.
//
// Usage Example:
//
//	config := common.ClientConfig{
//	  Endpoint:       "localhost:5000",
//	  TimeoutSecond:  5,
//	  RetryCount:     3,
//	  RetryBackoffMs: 1000,
//	}
//
//	list, _ := client.NewRPCList(config, tcp.NewTCPClientTransport(), serializer.NewBinarySerializer())
//	values, err := list.Append("hello")
//	if errors.Is(err, common.ErrCallFailed) {
//	  // server unreachable
//	}
//
//	result, _ := list.Call("FOO", common.NoValue())
//	fmt.Println(result.IsUnknownCommand()) // true
package client
