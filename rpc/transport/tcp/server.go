package tcp

import (
	"context"
	"github.com/ValentinKolb/dList/rpc/common"
	"github.com/ValentinKolb/dList/rpc/transport"
	"github.com/ValentinKolb/dList/rpc/transport/base"
	"github.com/pkg/errors"
	"net"
)

// serverConnector implements the IServerConnector interface for TCP sockets
type serverConnector struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see base.IServerConnector)
// --------------------------------------------------------------------------

func (c *serverConnector) GetName() string {
	return "tcp"
}

func (c *serverConnector) Listen(config common.ServerConfig) (net.Listener, error) {
	// SO_REUSEADDR lets a restarted server bind while old connections linger in TIME_WAIT
	lc := net.ListenConfig{Control: reuseAddrControl}

	listener, err := lc.Listen(context.Background(), "tcp", config.Endpoint)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create TCP socket on %s", config.Endpoint)
	}

	return listener, nil
}

// --------------------------------------------------------------------------
// Server Transport Factory Method
// --------------------------------------------------------------------------

// NewTCPServerTransport creates a new TCP server transport
func NewTCPServerTransport() transport.IRPCServerTransport {
	return base.NewBaseServerTransport(&serverConnector{})
}
