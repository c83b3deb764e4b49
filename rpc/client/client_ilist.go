package client

import (
	"github.com/ValentinKolb/dList/rpc/common"
	"github.com/ValentinKolb/dList/rpc/serializer"
	"github.com/ValentinKolb/dList/rpc/transport"
	"strings"
)

// --------------------------------------------------------------------------
// Result
// --------------------------------------------------------------------------

// Result is the value returned by a successful call.
// A failed call never produces a Result, it is reported through the error instead.
type Result struct {
	Value common.Value
}

// IsList reports whether the result holds a list
func (r Result) IsList() bool {
	return r.Value.Kind == common.ValKList
}

// List returns the list held by the result (nil if the result is not a list)
func (r Result) List() []string {
	if !r.IsList() {
		return nil
	}
	return r.Value.List
}

// Text returns the string held by the result and whether the result is a string
func (r Result) Text() (string, bool) {
	return r.Value.Str, r.Value.Kind == common.ValKString
}

// IsUnknownCommand reports whether the server did not know the called command
func (r Result) IsUnknownCommand() bool {
	s, ok := r.Text()
	return ok && strings.HasPrefix(s, common.UnknownCommandPrefix)
}

// String returns a printable representation of the result
func (r Result) String() string {
	return r.Value.String()
}

// --------------------------------------------------------------------------
// Client
// --------------------------------------------------------------------------

// RPCList is the client for a dList server. Every call opens its own connection.
type RPCList struct {
	rpcClientAdapter
}

// NewRPCList creates a new client for the list served at config.Endpoint
//
// Usage:
//
//	list, err := client.NewRPCList(config, tcp.NewTCPClientTransport(), serializer.NewBinarySerializer())
//	values, err := list.Append("hello")
func NewRPCList(
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (*RPCList, error) {

	// Init logger
	if err := common.InitLoggers(config.LogLevel); err != nil {
		return nil, err
	}

	// Connect the transport
	if err := transport.Connect(config); err != nil {
		return nil, err
	}

	return &RPCList{
		rpcClientAdapter{
			config:     config,
			transport:  transport,
			serializer: serializer,
		},
	}, nil
}

// Call invokes a command by name. The server answers unknown commands with a string result
// starting with "Unknown command:", see Result.IsUnknownCommand.
//
// If the server applied the command but could not persist it, the result is returned
// together with an error of kind common.ErrKPersistence.
func (c *RPCList) Call(command string, arg common.Value) (Result, error) {
	resp, err := invokeRPCRequest(common.NewCallRequest(command, arg), c.transport, c.serializer)
	if err != nil {
		return Result{}, err
	}

	result := Result{Value: resp.Value}
	if resp.MsgType == common.MsgTPersistError {
		Logger.Warningf("%s was applied but not persisted: %s", command, resp.Err)
		return result, common.NewError(common.ErrKPersistence, nil, "server: %s", resp.Err)
	}
	return result, nil
}

// Append appends a value to the list and returns the list after the append.
// On a persistence error on the server the list is returned along with the error.
func (c *RPCList) Append(value string) ([]string, error) {
	return c.callList(common.CmdAppend, common.StringValue(value))
}

// Get returns the whole list
func (c *RPCList) Get() ([]string, error) {
	return c.callList(common.CmdGet, common.NoValue())
}

// Close closes the underlying transport
func (c *RPCList) Close() error {
	return c.transport.Close()
}

// callList calls a command that must answer with a list
func (c *RPCList) callList(command string, arg common.Value) ([]string, error) {
	result, err := c.Call(command, arg)
	if err != nil && common.KindOf(err) != common.ErrKPersistence {
		return nil, err
	}
	if !result.IsList() {
		return nil, common.NewError(common.ErrKMalformedMessage, nil,
			"expected a list from %s, got %s", command, result.Value.Kind)
	}

	list := result.List()
	if list == nil {
		list = []string{}
	}
	return list, err
}
