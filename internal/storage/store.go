package storage

import (
	"errors"
	"fmt"
	"io"
)

var (
	// DefaultDir is the directory used by file based storage when none is configured.
	DefaultDir = "file-storage"
)

var (
	NotFoundErr      = errors.New("not found")
	CouldNotLoadErr  = errors.New("could not load")
	CouldNotStoreErr = errors.New("could not store")
)

// Key is the storage key for a persisted model.
type Key struct {
	Name string `json:"name"`
}

// Path returns the file name of the model parameters.
func (k Key) Path() string {
	return fmt.Sprintf("gradients_%s.csv", k.Name)
}

func (k Key) String() string {
	return k.Name
}

// Persistence stores and loads model snapshots.
// The value knows how to encode itself, the persistence only moves the bytes around.
type Persistence interface {
	Store(k Key, value io.WriterTo) error
	Load(k Key, value io.ReaderFrom) error
}
