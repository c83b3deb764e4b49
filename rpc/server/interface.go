package server

import (
	"github.com/ValentinKolb/dList/lib/store"
	"github.com/ValentinKolb/dList/rpc/common"
)

// IRPCServerAdapter is the interface for all RPC server adapters.
// It is responsible for turning a decoded request into a response.
type IRPCServerAdapter interface {
	// Handle handles a request against the list and returns the response.
	// Application level failures are reported inside the response, never as a Go error.
	Handle(req *common.Message, list store.IList) (resp *common.Message)
}

// CommandHandler executes one named command with its argument against the list
type CommandHandler func(arg common.Value, list store.IList) (resp *common.Message)
