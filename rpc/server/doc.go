// Package server implements the RPC server of dList.
//
// Key Components:
//
//   - Dispatcher: Maps command names to CommandHandler functions. APPEND and GET are
//     registered by NewIListServerAdapter, more can be added with Register. A name without
//     a handler is answered with the result "Unknown command: <name>", the exchange
//     otherwise completes normally.
//
//   - RPCServer: Ties a transport, a serializer and the shared list together. Requests that
//     cannot be decoded get no response; the transport closes the connection. The list is
//     loaded from ServerConfig.DataFile when the server is created.
//
//   - Metrics: Every server keeps its own VictoriaMetrics set (requests per command,
//     malformed requests, persistence failures, append latency, list length). It can be
//     written with WriteMetrics or served at /metrics on ServerConfig.MetricsEndpoint.
//
// Usage Example:
//
//	config := common.ServerConfig{
//	  Endpoint:      "0.0.0.0:5000",
//	  TimeoutSecond: 5,
//	  DataFile:      "dlist.json",
//	  LogLevel:      "info",
//	}
//
//	s, err := server.NewRPCServer(config, tcp.NewTCPServerTransport(), serializer.NewBinarySerializer())
//	if err != nil {
//	  log.Fatal(err)
//	}
//
//	if err := s.Serve(); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
//
// Thread Safety:
//
//	Every connection is handled in its own goroutine. The list serializes appends,
//	the dispatcher registry is a concurrent map. Serve should be called only once.
package server
