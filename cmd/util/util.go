package util

import (
	"fmt"
	"github.com/ValentinKolb/dList/rpc/common"
	"github.com/ValentinKolb/dList/rpc/serializer"
	"github.com/ValentinKolb/dList/rpc/transport"
	"github.com/ValentinKolb/dList/rpc/transport/tcp"
	"github.com/ValentinKolb/dList/rpc/transport/unix"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"strings"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50

	// EnvPrefix is the prefix of all environment variables (e.g. DLIST_ENDPOINT)
	EnvPrefix = "dlist"
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupRPCClientFlags adds common RPC connection flags to a command
func SetupRPCClientFlags(cmd *cobra.Command) {
	key := "endpoint"
	cmd.PersistentFlags().String(key, common.DefaultEndpoint, WrapString("The address of the dList server (host:port for tcp, a socket path for unix)"))

	key = "timeout"
	cmd.PersistentFlags().Int(key, common.DefaultTimeoutSecond, WrapString("The timeout in seconds of a single attempt (connect, send and receive)"))

	key = "retries"
	cmd.PersistentFlags().Int(key, common.DefaultRetryCount, WrapString("How many attempts to make before the call fails"))

	key = "retry-backoff"
	cmd.PersistentFlags().Int(key, common.DefaultRetryBackoffMs, WrapString("Base delay between attempts in milliseconds, the n-th retry waits n times as long"))

	key = "max-frame-size"
	cmd.PersistentFlags().Uint32(key, common.DefaultMaxFrameSize, WrapString("Largest response (in bytes) the client accepts"))

	key = "log-level"
	cmd.PersistentFlags().String(key, "warn", WrapString("LogLevel of the client (debug, info, warn, error)"))
}

// InitConfig loads .env files and initializes viper to read DLIST_* environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// GetClientConfig reads client configuration from viper
func GetClientConfig() *common.ClientConfig {
	return &common.ClientConfig{
		Endpoint:       viper.GetString("endpoint"),
		Network:        viper.GetString("transport"),
		TimeoutSecond:  viper.GetInt("timeout"),
		RetryCount:     viper.GetInt("retries"),
		RetryBackoffMs: viper.GetInt("retry-backoff"),
		MaxFrameSize:   viper.GetUint32("max-frame-size"),
		LogLevel:       viper.GetString("log-level"),
	}
}

// GetSerializer creates a serializer based on configuration
func GetSerializer() (serializer.IRPCSerializer, error) {
	switch viper.GetString("serializer") {
	case "json":
		return serializer.NewJSONSerializer(), nil
	case "gob":
		return serializer.NewGOBSerializer(), nil
	case "binary":
		return serializer.NewBinarySerializer(), nil
	case "proto":
		return serializer.NewProtoSerializer(), nil
	default:
		return nil, fmt.Errorf("invalid serializer %s", viper.GetString("serializer"))
	}
}

// GetTransport creates a client transport based on configuration
func GetTransport() (transport.IRPCClientTransport, error) {
	switch viper.GetString("transport") {
	case "tcp":
		return tcp.NewTCPClientTransport(), nil
	case "unix":
		return unix.NewUnixClientTransport(), nil
	default:
		return nil, fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}
}

// GetServerTransport creates a server transport based on configuration
func GetServerTransport() (transport.IRPCServerTransport, error) {
	switch viper.GetString("transport") {
	case "tcp":
		return tcp.NewTCPServerTransport(), nil
	case "unix":
		return unix.NewUnixServerTransport(), nil
	default:
		return nil, fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}
