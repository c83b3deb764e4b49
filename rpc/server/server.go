package server

import (
	"fmt"
	"github.com/ValentinKolb/dList/lib/store"
	"github.com/ValentinKolb/dList/lib/store/lstore"
	"github.com/ValentinKolb/dList/lib/store/persist"
	"github.com/ValentinKolb/dList/rpc/common"
	"github.com/ValentinKolb/dList/rpc/serializer"
	"github.com/ValentinKolb/dList/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
	"io"
	"net"
	"sync"
	"time"
)

var Logger = logger.GetLogger("rpc")

// RPCServer serves a single shared list over the configured transport
type RPCServer struct {
	config     common.ServerConfig
	transport  transport.IRPCServerTransport
	serializer serializer.IRPCSerializer

	list       store.IList
	dispatcher *Dispatcher

	inFlight *xsync.Counter
	metrics  *serverMetrics

	mu       sync.Mutex
	endpoint *metricsEndpoint
}

// NewRPCServer creates a new RPC server.
// It initializes the loggers and loads the list from config.DataFile (if set).
//
// Usage:
//
//	s, err := server.NewRPCServer(
//		config,
//		tcp.NewTCPServerTransport(),
//		serializer.NewBinarySerializer(),
//	)
//	if err != nil {
//		panic(err)
//	}
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	}
func NewRPCServer(
	config common.ServerConfig,
	transport transport.IRPCServerTransport,
	serializer serializer.IRPCSerializer,
) (*RPCServer, error) {

	// Init logger
	if err := common.InitLoggers(config.LogLevel); err != nil {
		return nil, err
	}

	Logger.Infof("Created RPC Server")
	Logger.Infof(config.String())

	// Create the list, loading it from disk if configured
	var file *persist.File
	if config.DataFile != "" {
		file = persist.NewFile(config.DataFile)
	} else {
		Logger.Warningf("No data file configured, the list will not survive a restart")
	}

	s := &RPCServer{
		config:     config,
		transport:  transport,
		serializer: serializer,
		list:       lstore.NewLocalList(file),
		dispatcher: NewIListServerAdapter(),
		inFlight:   xsync.NewCounter(),
	}
	s.metrics = newServerMetrics(s.list.Len, s.inFlight.Value)

	// Configure the transport layer
	s.registerTransportHandler()

	return s, nil
}

// Serve starts the metrics endpoint (if configured) and the transport.
// It blocks until Close is called.
func (s *RPCServer) Serve() error {
	if s.config.MetricsEndpoint != "" {
		endpoint, err := startMetricsEndpoint(s.config.MetricsEndpoint, s.metrics)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.endpoint = endpoint
		s.mu.Unlock()
	}

	Logger.Infof("dList setup completed successfully, serving %d values", s.list.Len())
	return s.transport.Listen(s.config)
}

// Close stops accepting connections and shuts down the metrics endpoint.
// Serve returns once all in-flight exchanges are finished.
func (s *RPCServer) Close() error {
	err := s.transport.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.endpoint != nil {
		if cerr := s.endpoint.close(); cerr != nil && err == nil {
			err = cerr
		}
		s.endpoint = nil
	}
	return err
}

// Addr returns the address the server listens on (nil before Serve)
func (s *RPCServer) Addr() net.Addr {
	return s.transport.Addr()
}

// MetricsAddr returns the address of the metrics endpoint (nil if it is not running)
func (s *RPCServer) MetricsAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.endpoint == nil {
		return nil
	}
	return s.endpoint.Addr()
}

// Dispatcher returns the command dispatcher, e.g. to register additional commands before Serve
func (s *RPCServer) Dispatcher() *Dispatcher {
	return s.dispatcher
}

// List returns the list served by the server
func (s *RPCServer) List() store.IList {
	return s.list
}

// WriteMetrics writes the server metrics in the Prometheus text format
func (s *RPCServer) WriteMetrics(w io.Writer) {
	s.metrics.write(w)
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

func (s *RPCServer) registerTransportHandler() {
	s.transport.RegisterHandler(s.handle)
}

// handle decodes a request, dispatches it and encodes the response.
// A request that cannot be decoded gets no response (nil), the transport then closes the connection.
func (s *RPCServer) handle(req []byte) []byte {
	s.inFlight.Inc()
	defer s.inFlight.Dec()

	// Decode the request
	var msg common.Message
	if err := s.serializer.Deserialize(req, &msg); err != nil {
		s.metrics.malformed.Inc()
		Logger.Warningf("Dropping request: %v", err)
		return nil
	}

	// Let the dispatcher handle the request
	start := time.Now()
	known := s.dispatcher.Has(msg.Command)
	respMsg := s.dispatcher.Handle(&msg, s.list)
	s.metrics.observe(&msg, respMsg, known, start)

	if !known {
		Logger.Infof("Unknown command %q", msg.Command)
	}

	// Return result
	val, err := s.serializer.Serialize(*respMsg)
	if err != nil {
		Logger.Errorf("Failed to serialize response: %v", err)
		val, err = s.serializer.Serialize(*common.NewErrorResponse(fmt.Sprintf("failed to serialize response: %s", err)))
		if err != nil {
			return nil
		}
	}
	return val
}
