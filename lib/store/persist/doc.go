// Package persist implements the durable file behind a list.
//
// The file holds a small JSON envelope:
//
//	{"version":1,"values":["a","b"]}
//
// Save writes the full list into a temporary file in the same directory, syncs it and
// renames it over the previous file, so a crash never leaves a partially written file
// behind. Load reads the file once at startup. A missing file is an empty list, any
// other failure (unreadable file, invalid JSON, unknown version) is returned as an
// error of kind common.ErrKPersistence and left to the caller to handle.
package persist
