package base

import (
	"fmt"
	"github.com/ValentinKolb/dList/rpc/common"
	"github.com/ValentinKolb/dList/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	"io"
	"math/rand"
	"net"
	"sync/atomic"
	"time"
)

var Logger = logger.GetLogger("transport/rpc")

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IClientConnector defines the interface for transport-specific connection operations
type IClientConnector interface {
	// Connect establishes a single connection, giving up at the deadline (zero means no deadline)
	Connect(endpoint string, deadline time.Time) (net.Conn, error)

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string
}

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// clientTransport implements the core client transport functionality
// independent of the specific transport medium (unix, tcp, etc.).
// Every call opens a fresh connection, there is no pooling or reuse.
type clientTransport struct {
	connector IClientConnector
	config    common.ClientConfig
	connected atomic.Bool
}

// -----------------------------------------------------------
// Transport Factory Method (used for tcp, unix, etc.)
// -----------------------------------------------------------

// NewBaseClientTransport creates a new base client transport with the specified connector
func NewBaseClientTransport(connector IClientConnector) transport.IRPCClientTransport {
	return &clientTransport{
		connector: connector,
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCClientTransport)
// --------------------------------------------------------------------------

func (t *clientTransport) Connect(config common.ClientConfig) error {
	if config.Endpoint == "" {
		return fmt.Errorf("no endpoint provided")
	}

	t.config = config
	t.connected.Store(true)

	Logger.Debugf("Using %s transport to %s (%d attempts, timeout %s)",
		t.connector.GetName(), config.Endpoint, config.Attempts(), config.Timeout())
	return nil
}

func (t *clientTransport) Send(req []byte) ([]byte, error) {
	if !t.connected.Load() {
		return nil, fmt.Errorf("transport is not connected")
	}

	callID := ulid.Make()
	attempts := t.config.Attempts()

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err := t.exchange(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		// Only transient failures are worth another attempt
		if !common.KindOf(err).Transient() {
			Logger.Debugf("[%s] Attempt %d/%d failed permanently: %v", callID, attempt, attempts, err)
			return nil, err
		}

		Logger.Warningf("[%s] Attempt %d/%d failed: %v", callID, attempt, attempts, err)

		if attempt < attempts {
			time.Sleep(t.backoff(attempt))
		}
	}

	// All attempts failed
	return nil, common.NewError(common.ErrKCallFailed, lastErr, "no response from %s after %d attempts",
		t.config.Endpoint, attempts)
}

func (t *clientTransport) Close() error {
	t.connected.Store(false)
	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// exchange performs one connect/send/receive cycle on a new connection.
// The configured timeout bounds the whole cycle.
func (t *clientTransport) exchange(req []byte) (resp []byte, err error) {
	var deadline time.Time
	if timeout := t.config.Timeout(); timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	conn, err := t.connector.Connect(t.config.Endpoint, deadline)
	if err != nil {
		return nil, classify(err, common.ErrKConnectFailed, "failed to connect to %s", t.config.Endpoint)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			Logger.Debugf("Failed to close connection to %s: %v", t.config.Endpoint, cerr)
		}
	}()

	if !deadline.IsZero() {
		if err := conn.SetDeadline(deadline); err != nil {
			return nil, errors.Wrap(err, "failed to set deadline")
		}
	}

	if err := writeFrame(conn, req); err != nil {
		return nil, classify(err, common.ErrKConnectFailed, "failed to send request")
	}

	resp, err = readFrame(conn, t.config.FrameLimit())
	if err != nil {
		if common.KindOf(err) == common.ErrKMalformedMessage {
			return nil, err
		}
		if err == io.EOF {
			return nil, common.NewError(common.ErrKConnectFailed, err, "connection closed without response")
		}
		return nil, classify(err, common.ErrKConnectFailed, "failed to receive response")
	}
	return resp, nil
}

// backoff returns the delay before the next attempt: the n-th retry waits n * RetryBackoffMs
// with a small random jitter (+-10%)
func (t *clientTransport) backoff(attempt int) time.Duration {
	base := float64(t.config.RetryBackoffMs * attempt)
	jitter := base * (0.9 + 0.2*rand.Float64())
	return time.Duration(jitter) * time.Millisecond
}

// classify wraps a network error into the taxonomy: deadlines become ErrKTimeout,
// everything else the given fallback kind
func classify(err error, fallback common.ErrorKind, format string, args ...interface{}) error {
	kind := fallback
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		kind = common.ErrKTimeout
	}
	return common.NewError(kind, err, format, args...)
}
