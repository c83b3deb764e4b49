// Package lstore implements the local, single-node list based on the store.IList interface.
//
// Implementation Details:
//
//   - Mutual Exclusion: Append takes the write lock for the whole append and persist
//     step, so two appends never interleave and the file always matches the list after
//     a successful append. Snapshot and Len take the read lock and may run concurrently.
//
//   - Persistence: An optional persist.File is loaded once in NewLocalList and rewritten
//     after every append. When the write fails, the value stays in memory and the caller
//     gets the snapshot together with the persistence error. Memory and disk diverge until
//     the next successful append.
//
//   - Snapshots: Every returned slice is a copy, callers may keep or modify it.
//
// Usage Example:
//
//	list := lstore.NewLocalList(persist.NewFile("list.json"))
//	snapshot, err := list.Append("hello")
package lstore
