package base

import (
	"fmt"
	"github.com/ValentinKolb/dList/rpc/common"
	"github.com/ValentinKolb/dList/rpc/transport"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IServerConnector defines the interface for transport-specific server operations
type IServerConnector interface {
	// Listen creates a listener and returns it
	Listen(config common.ServerConfig) (net.Listener, error)

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string
}

// -----------------------------------------------------------
// Connection States
// -----------------------------------------------------------

// connState is the state of a single connection handled by the server
type connState uint8

const (
	stateAwaitingRequest connState = iota
	stateDispatching
	stateSendingResponse
	stateClosed
)

func (s connState) String() string {
	switch s {
	case stateAwaitingRequest:
		return "AwaitingRequest"
	case stateDispatching:
		return "Dispatching"
	case stateSendingResponse:
		return "SendingResponse"
	case stateClosed:
		return "Closed"
	default:
		return "Invalid"
	}
}

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// serverTransport implements the core server transport functionality
type serverTransport struct {
	connector IServerConnector
	handler   transport.ServerHandleFunc
	config    common.ServerConfig

	listenerMu sync.Mutex
	listener   net.Listener
	closed     atomic.Bool

	handlers sync.WaitGroup // in-flight connection handlers
}

// maxAcceptDelay caps the pause after consecutive accept errors
const maxAcceptDelay = time.Second

// -----------------------------------------------------------
// Transport Factory Method (used for tcp, unix, etc.)
// -----------------------------------------------------------

// NewBaseServerTransport creates a new base server transport.
// Every accepted connection is served by its own goroutine for exactly one exchange.
func NewBaseServerTransport(connector IServerConnector) transport.IRPCServerTransport {
	return &serverTransport{
		connector: connector,
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCServerTransport)
// --------------------------------------------------------------------------

func (t *serverTransport) RegisterHandler(handler transport.ServerHandleFunc) {
	t.handler = handler
}

func (t *serverTransport) Listen(config common.ServerConfig) error {
	if t.handler == nil {
		return fmt.Errorf("no handler registered")
	}
	t.config = config

	// Create listener using the connector
	listener, err := t.connector.Listen(config)
	if err != nil {
		return errors.Wrap(err, "failed to create listener")
	}

	t.listenerMu.Lock()
	t.listener = listener
	t.listenerMu.Unlock()

	// Close was called before the listener existed
	if t.closed.Load() {
		_ = listener.Close()
		return nil
	}

	Logger.Infof("Starting %s server on %s", t.connector.GetName(), listener.Addr())

	// Accept connections
	var delay time.Duration
	for {
		conn, err := listener.Accept()
		if err != nil {
			if t.closed.Load() || errors.Is(err, net.ErrClosed) {
				break
			}

			// e.g. too many open files: back off and keep serving
			if delay == 0 {
				delay = 5 * time.Millisecond
			} else {
				delay *= 2
			}
			if delay > maxAcceptDelay {
				delay = maxAcceptDelay
			}
			Logger.Errorf("Accept error: %v; retrying in %v", err, delay)
			time.Sleep(delay)
			continue
		}
		delay = 0

		// Handle the connection in a goroutine
		t.handlers.Add(1)
		go t.handleConnection(conn)
	}

	// Let in-flight exchanges finish
	t.handlers.Wait()
	Logger.Infof("%s server on %s stopped", t.connector.GetName(), listener.Addr())
	return nil
}

func (t *serverTransport) Addr() net.Addr {
	t.listenerMu.Lock()
	defer t.listenerMu.Unlock()
	if t.listener == nil {
		return nil
	}
	return t.listener.Addr()
}

func (t *serverTransport) Close() error {
	if t.closed.Swap(true) {
		return nil
	}
	t.listenerMu.Lock()
	defer t.listenerMu.Unlock()
	if t.listener == nil {
		return nil
	}
	return t.listener.Close()
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// handleConnection serves exactly one request/response exchange and always closes the connection
func (t *serverTransport) handleConnection(conn net.Conn) {
	connID := ulid.Make()
	state := stateAwaitingRequest

	defer t.handlers.Done()
	defer func() {
		if r := recover(); r != nil {
			Logger.Errorf("[%s] Panic in state %s: %v", connID, state, r)
		}
		if err := conn.Close(); err != nil {
			Logger.Debugf("[%s] Failed to close connection: %v", connID, err)
		}
		Logger.Debugf("[%s] %s -> %s", connID, state, stateClosed)
	}()

	Logger.Debugf("[%s] Accepted connection from %s", connID, conn.RemoteAddr())

	timeout := t.config.Timeout()

	// AwaitingRequest
	if timeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			Logger.Errorf("[%s] Failed to set read deadline: %v", connID, err)
			return
		}
	}

	req, err := readFrame(conn, t.config.FrameLimit())
	if err != nil {
		t.logReadError(connID, err)
		return
	}

	// Dispatching
	state = stateDispatching
	start := time.Now()
	resp := t.handler(req)
	Logger.Debugf("[%s] Processed request of %d bytes in %s", connID, len(req), time.Since(start))

	// A nil response means the request could not be decoded
	if resp == nil {
		return
	}

	// SendingResponse
	state = stateSendingResponse
	if timeout > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
			Logger.Errorf("[%s] Failed to set write deadline: %v", connID, err)
			return
		}
	}

	if err := writeFrame(conn, resp); err != nil {
		Logger.Errorf("[%s] Failed to write response: %v", connID, err)
	}
}

// logReadError logs why no request could be read from a connection
func (t *serverTransport) logReadError(connID ulid.ULID, err error) {
	var netErr net.Error
	switch {
	case err == io.EOF:
		Logger.Debugf("[%s] Connection closed by client before sending a request", connID)
	case errors.Is(err, common.ErrMalformedMessage):
		Logger.Warningf("[%s] Malformed request: %v", connID, err)
	case errors.As(err, &netErr) && netErr.Timeout():
		Logger.Warningf("[%s] Client connection timed out: %v", connID, err)
	default:
		Logger.Errorf("[%s] Error reading request: %v", connID, err)
	}
}
