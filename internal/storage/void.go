package storage

import (
	"fmt"
	"io"
)

// VoidStorage is a noop storage
type VoidStorage struct {
}

// NewVoidStorage creates a new noop storage
func NewVoidStorage() *VoidStorage {
	return &VoidStorage{}
}

func (d VoidStorage) Store(k Key, value io.WriterTo) error {
	return nil
}

func (d VoidStorage) Load(k Key, value io.ReaderFrom) error {
	return fmt.Errorf("not found '%v': %w", k, NotFoundErr)
}
