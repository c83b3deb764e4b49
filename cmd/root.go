package cmd

import (
	"fmt"
	"github.com/ValentinKolb/dList/cmd/list"
	"github.com/ValentinKolb/dList/cmd/serve"
	"github.com/ValentinKolb/dList/cmd/util"
	"github.com/spf13/cobra"
	"os"
)

const (
	Version = "0.1.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "dlist",
		Short: "shared list served over a minimal RPC protocol",
		Long: fmt.Sprintf(`dList (v%s)

A server holding a single ordered list of strings, shared by all clients.
Clients append to and read the list over a length-prefixed RPC protocol,
one request per connection.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dList",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dList v%s\n", Version)
		},
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(list.ListCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, "binary", util.WrapString("serializer to use (json, gob, binary, proto)"))
	key = "transport"
	RootCmd.PersistentFlags().String(key, "tcp", util.WrapString("transport to use (tcp, unix)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
