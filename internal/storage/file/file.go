package file

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/drakos74/mantis/internal/storage"
)

// Storage persists model snapshots as files within a directory.
type Storage struct {
	dir string
}

// NewStorage creates a new file storage on the given directory.
// An empty dir defaults to storage.DefaultDir.
func NewStorage(dir string) *Storage {
	if dir == "" {
		dir = storage.DefaultDir
	}
	return &Storage{dir: dir}
}

// Path returns the full file path for the given key.
func (s *Storage) Path(k storage.Key) string {
	return filepath.Join(s.dir, k.Path())
}

// Store writes the value into a temporary file and moves it in place,
// so that a crash during the write never leaves a truncated snapshot behind.
func (s *Storage) Store(k storage.Key, value io.WriterTo) error {
	// check if filepath exists
	info, err := os.Stat(s.dir)
	if err != nil {
		err := os.MkdirAll(s.dir, os.ModePerm)
		if err != nil {
			return fmt.Errorf("could not make dir: %s: %w", s.dir, err)
		}
	} else if !info.IsDir() {
		return fmt.Errorf("path given is not a directory: %s: %w", s.dir, storage.CouldNotStoreErr)
	}

	f, err := os.CreateTemp(s.dir, k.Path()+".*")
	if err != nil {
		return fmt.Errorf("could not create file for '%v': %w", k, err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	w := bufio.NewWriter(f)
	if _, err := value.WriteTo(w); err != nil {
		f.Close()
		return fmt.Errorf("could not write '%v' to file '%s': %w", k, tmp, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("could not flush file '%s': %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("could not close file '%s': %w", tmp, err)
	}

	p := s.Path(k)
	if err := os.Rename(tmp, p); err != nil {
		return fmt.Errorf("could not move '%s' to '%s': %w", tmp, p, err)
	}
	return nil
}

// Load reads the snapshot for the given key into the value.
func (s *Storage) Load(k storage.Key, value io.ReaderFrom) error {
	p := s.Path(k)

	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("could not read file '%s': %w", p, storage.NotFoundErr)
		}
		return fmt.Errorf("could not open file '%s' %s: %w", p, err.Error(), storage.CouldNotLoadErr)
	}
	defer f.Close()

	if _, err := value.ReadFrom(bufio.NewReader(f)); err != nil {
		return fmt.Errorf("could not load file '%s': %w", p, err)
	}
	return nil
}
