package client

import (
	"github.com/ValentinKolb/dList/rpc/common"
	"github.com/ValentinKolb/dList/rpc/serializer"
	"github.com/ValentinKolb/dList/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/pkg/errors"
)

var (
	Logger = logger.GetLogger("client")
)

// rpcClientAdapter is a struct that stores all data needed by an RPC client
type rpcClientAdapter struct {
	config     common.ClientConfig
	transport  transport.IRPCClientTransport
	serializer serializer.IRPCSerializer
}

// invokeRPCRequest is a helper function used by the client to send requests.
// It returns the decoded response, which is either a result or a persistence error response.
// Transport errors are returned as they are (ConnectFailed, Timeout, CallFailed, MalformedMessage),
// an error response of the server is returned as a plain error.
// A request the server would reject is not sent at all.
func invokeRPCRequest(req *common.Message, transport transport.IRPCClientTransport, serializer serializer.IRPCSerializer) (*common.Message, error) {
	// The server drops invalid requests without a response, which would look like a connection failure
	if err := req.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid request")
	}

	// Serialize the request
	reqBytes, err := serializer.Serialize(*req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize request")
	}

	// Send the request
	respBytes, err := transport.Send(reqBytes)
	if err != nil {
		return nil, err
	}

	// Deserialize the response
	resp := &common.Message{}
	if err := serializer.Deserialize(respBytes, resp); err != nil {
		return nil, err
	}

	// Check the type of the response
	switch resp.MsgType {
	case common.MsgTResult, common.MsgTPersistError:
		return resp, nil
	case common.MsgTError:
		return nil, errors.Errorf("server error: %s", resp.Err)
	default:
		return nil, common.NewError(common.ErrKMalformedMessage, nil, "unexpected response type %s", resp.MsgType)
	}
}
