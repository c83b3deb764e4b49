package list

import (
	"github.com/ValentinKolb/dList/cmd/util"
	"github.com/ValentinKolb/dList/rpc/client"
	"github.com/spf13/cobra"
)

var (
	rpcList *client.RPCList

	// ListCommands represents the list command group
	ListCommands = &cobra.Command{
		Use:               "list",
		Short:             "Perform operations on the shared list",
		PersistentPreRunE: setupListClient,
	}
)

func init() {
	// Add common RPC flags to the list command
	util.SetupRPCClientFlags(ListCommands)

	// Add subcommands
	ListCommands.AddCommand(appendCmd)
	ListCommands.AddCommand(getCmd)
	ListCommands.AddCommand(callCmd)
	ListCommands.AddCommand(perfTestCmd)
}

// setupListClient initializes the RPC list client
func setupListClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Get client configuration
	config := util.GetClientConfig()

	// Get serializer and transport
	s, err := util.GetSerializer()
	if err != nil {
		return err
	}

	t, err := util.GetTransport()
	if err != nil {
		return err
	}

	// Create the list client
	rpcList, err = client.NewRPCList(
		*config,
		t,
		s,
	)

	return err
}
