package transport

import (
	"github.com/ValentinKolb/dList/rpc/common"
	"net"
)

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// ServerHandleFunc is a function type that handles incoming requests
// This function is called by a server transport layer when a request frame was received
// It takes the request payload and returns the response payload
type ServerHandleFunc func(req []byte) (resp []byte)

// IRPCServerTransport is the interface for the RPC transport layer
// It must accept a ServerConfig as a parameter
type IRPCServerTransport interface {
	// RegisterHandler registers a handler for the transport layer
	// This handler should be called once for every request that was received
	RegisterHandler(handler ServerHandleFunc)
	// Listen starts the transport layer and listens for incoming requests.
	// It blocks until Close is called (returning nil) or the listener cannot be created.
	Listen(config common.ServerConfig) error
	// Addr returns the address the transport listens on, nil before Listen was called
	Addr() net.Addr
	// Close stops accepting new connections, in-flight exchanges run to completion
	Close() error
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IRPCClientTransport is the interface for the RPC client transport
type IRPCClientTransport interface {
	// Connect initializes the transport with the given configuration
	Connect(config common.ClientConfig) error
	// Send sends a request to the server and returns the response.
	// Transient failures are retried according to the configuration, once all attempts
	// are used up the returned error matches common.ErrCallFailed.
	Send(req []byte) (resp []byte, err error)
	// Close closes the transport
	Close() error
}
