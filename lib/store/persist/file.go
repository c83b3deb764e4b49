package persist

import (
	"encoding/json"
	"github.com/ValentinKolb/dList/rpc/common"
	"os"
	"path/filepath"
)

// FormatVersion is the version of the envelope written by Save
const FormatVersion = 1

// envelope is the on-disk representation of a list
type envelope struct {
	Version int      `json:"version"`
	Values  []string `json:"values"`
}

// File is the durable copy of a list at a fixed path
type File struct {
	path string
}

// NewFile creates a File for the given path. The file itself is not touched.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the path of the file
func (f *File) Path() string {
	return f.path
}

// Load reads the list from the file. A missing file yields an empty list and no error.
func (f *File) Load() ([]string, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, common.NewError(common.ErrKPersistence, err, "failed to read %s", f.path)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, common.NewError(common.ErrKPersistence, err, "failed to decode %s", f.path)
	}
	if env.Version != FormatVersion {
		return nil, common.NewError(common.ErrKPersistence, nil,
			"unsupported format version %d in %s (expected %d)", env.Version, f.path, FormatVersion)
	}
	return env.Values, nil
}

// Save replaces the file with the given list.
// The list is written to a temporary file next to the target which is then renamed over it.
func (f *File) Save(values []string) error {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(envelope{Version: FormatVersion, Values: values})
	if err != nil {
		return common.NewError(common.ErrKPersistence, err, "failed to encode list")
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return common.NewError(common.ErrKPersistence, err, "failed to create temporary file for %s", f.path)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return common.NewError(common.ErrKPersistence, err, "failed to write %s", tmpPath)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return common.NewError(common.ErrKPersistence, err, "failed to sync %s", tmpPath)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return common.NewError(common.ErrKPersistence, err, "failed to close %s", tmpPath)
	}

	if err := os.Rename(tmpPath, f.path); err != nil {
		_ = os.Remove(tmpPath)
		return common.NewError(common.ErrKPersistence, err, "failed to replace %s", f.path)
	}

	// the rename itself is only durable once the directory entry is on disk
	if err := syncDir(filepath.Dir(f.path)); err != nil {
		return common.NewError(common.ErrKPersistence, err, "failed to sync directory of %s", f.path)
	}
	return nil
}

// syncDir flushes a directory so that entries created or renamed in it survive a crash
var syncDir = func(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	if err := d.Sync(); err != nil {
		_ = d.Close()
		return err
	}
	return d.Close()
}
