// Package cmd implements the command-line interface of dList. It provides a
// hierarchical command structure for running the server and talking to it as a client.
//
// The package is organized into several subpackages:
//
//   - serve: Command for starting and configuring the dList server
//   - list: Commands for list operations (append, get, call) and the perf harness
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// All flags can also be set through environment variables with the DLIST_ prefix
// (e.g. DLIST_ENDPOINT=localhost:6000), which may be placed in a .env or .env.local file.
//
// See dlist -help for a list of all commands.
package cmd
