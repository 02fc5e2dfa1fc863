package storage

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// LocalStorage keeps the snapshots in memory.
type LocalStorage struct {
	files map[Key][]byte
	mutex *sync.RWMutex
}

// NewLocalStorage creates a new in memory storage.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{
		files: make(map[Key][]byte),
		mutex: new(sync.RWMutex),
	}
}

func (l *LocalStorage) Store(k Key, value io.WriterTo) error {
	var buf bytes.Buffer
	if _, err := value.WriteTo(&buf); err != nil {
		return fmt.Errorf("could not encode '%v': %s: %w", k, err.Error(), CouldNotStoreErr)
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.files[k] = buf.Bytes()
	return nil
}

func (l *LocalStorage) Load(k Key, value io.ReaderFrom) error {
	l.mutex.RLock()
	b, ok := l.files[k]
	l.mutex.RUnlock()

	if !ok {
		return fmt.Errorf("file not found '%v': %w", k, NotFoundErr)
	}

	if _, err := value.ReadFrom(bytes.NewReader(b)); err != nil {
		return fmt.Errorf("could not decode '%v': %w", k, err)
	}
	return nil
}

// Raw returns the stored bytes for the given key.
func (l *LocalStorage) Raw(k Key) ([]byte, bool) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	b, ok := l.files[k]
	return b, ok
}

// Put sets the raw bytes for the given key.
func (l *LocalStorage) Put(k Key, b []byte) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.files[k] = b
}
