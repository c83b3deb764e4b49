package lstore

import (
	"github.com/ValentinKolb/dList/lib/store"
	"github.com/ValentinKolb/dList/lib/store/persist"
	"github.com/lni/dragonboat/v4/logger"
	"sync"
)

var Logger = logger.GetLogger("store")

type listImpl struct {
	mu     sync.RWMutex
	values []string
	file   *persist.File // nil if the list is not persisted
}

// NewLocalList creates a new local list.
// If file is not nil, the list is loaded from it and the file is rewritten after every append.
// A file that exists but cannot be loaded is logged and the list starts empty;
// the file is left as it is until the next append replaces it.
func NewLocalList(file *persist.File) store.IList {
	l := &listImpl{file: file}

	if file != nil {
		values, err := file.Load()
		if err != nil {
			Logger.Errorf("Could not load list from %s, starting empty: %v", file.Path(), err)
		} else {
			l.values = values
			Logger.Infof("Loaded %d values from %s", len(values), file.Path())
		}
	}

	return l
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (l *listImpl) Append(value string) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.values = append(l.values, value)
	snapshot := l.copyLocked()

	if l.file != nil {
		if err := l.file.Save(l.values); err != nil {
			Logger.Errorf("Appended value #%d in memory but failed to persist it: %v", len(l.values), err)
			return snapshot, err
		}
	}
	return snapshot, nil
}

func (l *listImpl) Snapshot() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.copyLocked()
}

func (l *listImpl) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.values)
}

// copyLocked returns a copy of the values, the caller must hold the lock
func (l *listImpl) copyLocked() []string {
	out := make([]string, len(l.values))
	copy(out, l.values)
	return out
}
