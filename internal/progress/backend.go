package progress

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/vovakirdan/mouthfix/internal/storage"
)

// ErrNotFound is returned by a Backend holding no document.
var ErrNotFound = errors.New("progress: no stored document")

// Backend is durable storage for a single JSON document.
type Backend interface {
	Read() ([]byte, error)
	Write(doc []byte) error
	Clear() error
}

// FileBackend stores the document in one file.
type FileBackend struct {
	Path string
}

// NewFileBackend returns a backend writing to path. A leading ~ is expanded.
func NewFileBackend(path string) (*FileBackend, error) {
	expanded, err := storage.ExpandHome(path)
	if err != nil {
		return nil, fmt.Errorf("progress: %w", err)
	}
	return &FileBackend{Path: expanded}, nil
}

func (b *FileBackend) Read() ([]byte, error) {
	data, err := os.ReadFile(b.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("progress: read %s: %w", b.Path, err)
	}
	return data, nil
}

// Write replaces the file atomically via a temp file in the same directory.
func (b *FileBackend) Write(doc []byte) error {
	dir := filepath.Dir(b.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("progress: create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".profile-*.json")
	if err != nil {
		return fmt.Errorf("progress: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		return fmt.Errorf("progress: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("progress: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, b.Path); err != nil {
		return fmt.Errorf("progress: replace %s: %w", b.Path, err)
	}
	return nil
}

func (b *FileBackend) Clear() error {
	err := os.Remove(b.Path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("progress: remove %s: %w", b.Path, err)
	}
	return nil
}

// MemoryBackend keeps the document in memory.
type MemoryBackend struct {
	mu  sync.Mutex
	doc []byte
}

// NewMemoryBackend returns a backend preloaded with doc (may be nil).
func NewMemoryBackend(doc []byte) *MemoryBackend {
	return &MemoryBackend{doc: slices.Clone(doc)}
}

func (b *MemoryBackend) Read() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.doc == nil {
		return nil, ErrNotFound
	}
	return slices.Clone(b.doc), nil
}

func (b *MemoryBackend) Write(doc []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.doc = slices.Clone(doc)
	return nil
}

func (b *MemoryBackend) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.doc = nil
	return nil
}

// SQLiteBackend stores the document as one row of the profiles table.
type SQLiteBackend struct {
	store *storage.Store
	key   string
}

// NewSQLiteBackend returns a backend for the profile stored under key.
func NewSQLiteBackend(store *storage.Store, key string) *SQLiteBackend {
	return &SQLiteBackend{store: store, key: key}
}

func (b *SQLiteBackend) Read() ([]byte, error) {
	doc, err := b.store.ReadProfile(b.key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	return doc, err
}

func (b *SQLiteBackend) Write(doc []byte) error {
	return b.store.WriteProfile(b.key, doc)
}

func (b *SQLiteBackend) Clear() error {
	return b.store.DeleteProfile(b.key)
}
