package serve

import (
	cmdUtil "github.com/ValentinKolb/dList/cmd/util"
	"github.com/ValentinKolb/dList/rpc/common"
	"github.com/ValentinKolb/dList/rpc/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
	"os/signal"
	"syscall"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the dList server",
		Long:    `Start the dList server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is DLIST_<flag> (e.g. DLIST_DATA_FILE=/var/lib/dlist/list.json)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// add flags
	key := "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:5000", cmdUtil.WrapString("The address on which the server will listen (e.g. localhost:5000, /tmp/dlist.sock, ...)"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, common.DefaultTimeoutSecond, cmdUtil.WrapString("Read and write deadline of a connection in seconds (0 disables the deadline)"))

	key = "data-file"
	ServeCmd.PersistentFlags().String(key, "dlist.json", cmdUtil.WrapString("File the list is persisted to after every append. An empty value keeps the list in memory only"))

	key = "max-frame-size"
	ServeCmd.PersistentFlags().Uint32(key, common.DefaultMaxFrameSize, cmdUtil.WrapString("Largest request (in bytes) the server accepts"))

	key = "metrics-endpoint"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Address of an HTTP endpoint serving /metrics in the Prometheus format (e.g. localhost:9100). Disabled if empty"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, common.DefaultLogLevel, cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// read the configuration from the command line flags and environment variables
	serveCmdConfig.Endpoint = viper.GetString("endpoint")
	serveCmdConfig.Network = viper.GetString("transport")
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.DataFile = viper.GetString("data-file")
	serveCmdConfig.MaxFrameSize = viper.GetUint32("max-frame-size")
	serveCmdConfig.MetricsEndpoint = viper.GetString("metrics-endpoint")
	serveCmdConfig.LogLevel = viper.GetString("log-level")

	// validate early so a typo does not surface as a server start failure
	if _, err := common.ParseLogLevel(serveCmdConfig.LogLevel); err != nil {
		return err
	}

	return nil
}

// run starts the dList server and stops it on SIGINT or SIGTERM
func run(_ *cobra.Command, _ []string) error {

	// parse the serializer
	s, err := cmdUtil.GetSerializer()
	if err != nil {
		return err
	}

	// Parse the transport
	t, err := cmdUtil.GetServerTransport()
	if err != nil {
		return err
	}

	serv, err := server.NewRPCServer(
		*serveCmdConfig,
		t,
		s,
	)
	if err != nil {
		return err
	}

	// Stop gracefully on signal
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)
	go func() {
		if sig, ok := <-signals; ok {
			server.Logger.Infof("Received %s, shutting down", sig)
			if err := serv.Close(); err != nil {
				server.Logger.Errorf("Failed to stop server: %v", err)
			}
		}
	}()

	return serv.Serve()
}
