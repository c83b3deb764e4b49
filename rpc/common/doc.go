// Package common provides core data structures and utilities shared across dList.
// It defines the message protocol, configuration structures and the error kinds used
// by the other packages.
//
// Key Components:
//
//   - Message: Core data structure for all RPC communication. A request names a command
//     and carries an optional argument, a response carries a Value or an error text.
//     Includes factory methods for the request and response messages.
//
//   - Value: A tagged value that is either absent, a string or a list of strings.
//     An absent argument and an empty string are different values.
//
//   - Error: Classified errors (MalformedMessage, PersistenceError, ConnectFailed, Timeout,
//     CallFailed). Use errors.Is with the sentinel values (e.g. ErrCallFailed) to test for a kind.
//
//   - ServerConfig and ClientConfig: Configuration for the server and the client,
//     controlling endpoints, deadlines, retries, frame limits and persistence.
//
//   - Logger: Custom logging implementation that integrates with Dragonboat's
//     logger package while providing consistent formatting across the application.
package common
