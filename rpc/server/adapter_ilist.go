package server

import (
	"fmt"
	"github.com/ValentinKolb/dList/lib/store"
	"github.com/ValentinKolb/dList/rpc/common"
	"github.com/puzpuzpuz/xsync/v3"
)

// Dispatcher maps command names to handlers. Names without a handler are answered with
// an "Unknown command: <name>" result, which is a normal response and not an error.
type Dispatcher struct {
	handlers *xsync.MapOf[string, CommandHandler]
}

// NewIListServerAdapter creates a dispatcher with the APPEND and GET commands registered
func NewIListServerAdapter() *Dispatcher {
	d := &Dispatcher{
		handlers: xsync.NewMapOf[string, CommandHandler](),
	}
	d.Register(common.CmdAppend, handleAppend)
	d.Register(common.CmdGet, handleGet)
	return d
}

// Register adds or replaces the handler of a command
func (d *Dispatcher) Register(name string, handler CommandHandler) {
	d.handlers.Store(name, handler)
}

// Has reports whether a handler is registered for the command
func (d *Dispatcher) Has(name string) bool {
	_, ok := d.handlers.Load(name)
	return ok
}

// Commands returns the number of registered commands
func (d *Dispatcher) Commands() int {
	return d.handlers.Size()
}

func (d *Dispatcher) Handle(req *common.Message, list store.IList) *common.Message {
	// Check for nil list
	if list == nil {
		return common.NewErrorResponse("handler: list is nil")
	}

	if req.MsgType != common.MsgTCall {
		return common.NewErrorResponse(fmt.Sprintf("unsupported message type: %s", req.MsgType))
	}

	handler, ok := d.handlers.Load(req.Command)
	if !ok {
		return common.NewResultResponse(common.StringValue(common.UnknownCommandResult(req.Command)))
	}
	return handler(req.Value, list)
}

// --------------------------------------------------------------------------
// Command Handlers
// --------------------------------------------------------------------------

func handleAppend(arg common.Value, list store.IList) *common.Message {
	if arg.Kind != common.ValKString {
		return common.NewErrorResponse(fmt.Sprintf("%s expects a string argument, got %s", common.CmdAppend, arg.Kind))
	}

	snapshot, err := list.Append(arg.Str)
	if err != nil {
		return common.NewPersistErrorResponse(common.ListValue(snapshot), err)
	}
	return common.NewResultResponse(common.ListValue(snapshot))
}

func handleGet(_ common.Value, list store.IList) *common.Message {
	return common.NewResultResponse(common.ListValue(list.Snapshot()))
}
