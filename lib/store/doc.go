// Package store defines the shared state of a dList server: an ordered list of string
// values that only grows through appends.
//
// Key Components:
//
//   - IList Interface: The abstraction used by the command handlers of the server.
//     Append returns the full list after the append, Snapshot returns a consistent copy
//     and Len the current size.
//
// Implementations:
//
//	- Local List (lstore): An in-memory list guarded by a read/write mutex. Appends
//	  are serialized, snapshots run concurrently with each other. The list can be
//	  backed by a file (see package persist) that is rewritten after every append.
//	  Available in the "github.com/ValentinKolb/dList/lib/store/lstore" package.
//
//	- File persistence (persist): The durable file format and the atomic
//	  write-to-temp-then-rename used to replace it.
//	  Available in the "github.com/ValentinKolb/dList/lib/store/persist" package.
package store
