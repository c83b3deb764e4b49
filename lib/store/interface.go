package store

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IList is the interface of the shared, ordered list of values.
// All mutations go through Append, reads through Snapshot and Len.
type IList interface {
	// Append adds a value to the end of the list and returns a snapshot of the resulting list.
	// If the list is backed by a file and writing it fails, the value stays appended in memory,
	// the snapshot is still returned and the error is of kind common.ErrKPersistence.
	Append(value string) (snapshot []string, err error)
	// Snapshot returns a copy of the current list. It never observes a partially applied append.
	Snapshot() []string
	// Len returns the current number of values.
	Len() int
}
