package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Defaults
// --------------------------------------------------------------------------

const (
	DefaultEndpoint       = "localhost:5000"
	DefaultNetwork        = "tcp"
	DefaultTimeoutSecond  = 5
	DefaultRetryCount     = 3
	DefaultRetryBackoffMs = 1000
	DefaultMaxFrameSize   = 64 * 1024 * 1024 // 64 MiB
	DefaultLogLevel       = "info"
)

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

// ServerConfig holds all configuration parameters for the RPC server.
type ServerConfig struct {
	// Address the server listens on (host:port for tcp, a socket path for unix)
	Endpoint string
	// Network is the name of the transport (tcp, unix), only used for display
	Network string

	// Per-connection read/write deadline in seconds, 0 disables the deadline
	TimeoutSecond int64

	// Path of the durable state file, empty disables persistence
	DataFile string

	// Largest payload (in bytes) accepted in a single frame
	MaxFrameSize uint32

	// Address of the optional metrics HTTP endpoint, empty disables it
	MetricsEndpoint string

	// Logging configuration
	LogLevel string
}

// Timeout returns the per-connection deadline as a duration
func (c *ServerConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecond) * time.Second
}

// FrameLimit returns MaxFrameSize or the default if it is unset
func (c *ServerConfig) FrameLimit() uint32 {
	if c.MaxFrameSize == 0 {
		return DefaultMaxFrameSize
	}
	return c.MaxFrameSize
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// RPC settings
	addSection("RPC Server")
	addField("Endpoint", c.Endpoint)
	addField("Network", c.Network)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Max Frame Size", fmt.Sprintf("%d bytes", c.FrameLimit()))

	// Storage
	addSection("Storage")
	if c.DataFile == "" {
		addField("Data File", "(in-memory only)")
	} else {
		addField("Data File", c.DataFile)
	}

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)
	if c.MetricsEndpoint != "" {
		addField("Metrics Endpoint", c.MetricsEndpoint)
	}

	return sb.String()
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

// ClientConfig holds all configuration parameters for the RPC client.
type ClientConfig struct {
	// Address of the server
	Endpoint string
	// Network is the name of the transport (tcp, unix), only used for display
	Network string

	// Bounds connect, send and receive of a single attempt, 0 disables the deadline
	TimeoutSecond int
	// Total number of attempts per call (values < 1 mean one attempt)
	RetryCount int
	// Base delay between attempts, the n-th retry waits n * RetryBackoffMs
	RetryBackoffMs int

	// Largest payload (in bytes) accepted in a single response frame
	MaxFrameSize uint32

	// Logging configuration
	LogLevel string
}

// Timeout returns the per-attempt deadline as a duration
func (c *ClientConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecond) * time.Second
}

// Attempts returns the number of attempts a call may make
func (c *ClientConfig) Attempts() int {
	if c.RetryCount < 1 {
		return 1
	}
	return c.RetryCount
}

// FrameLimit returns MaxFrameSize or the default if it is unset
func (c *ClientConfig) FrameLimit() uint32 {
	if c.MaxFrameSize == 0 {
		return DefaultMaxFrameSize
	}
	return c.MaxFrameSize
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// General Client Settings
	addSection("Client Configuration")
	addField("Endpoint", c.Endpoint)
	addField("Network", c.Network)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Attempts", strconv.Itoa(c.Attempts()))
	addField("Retry Backoff", fmt.Sprintf("%d ms", c.RetryBackoffMs))

	return sb.String()
}
