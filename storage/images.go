// storage/images.go
package storage

import (
	"io"
	"os"
	"path/filepath"
	"sync"
)

// ImageStore is the capability the bike catalog needs for image files. The
// catalog never touches the filesystem directly, so tests can substitute the
// in-memory implementation.
type ImageStore interface {
	Store(name string, r io.Reader) error
	Delete(name string) error
	Exists(name string) bool
}

// LocalImageStore keeps images as plain files under a single directory.
type LocalImageStore struct {
	dir string
}

func NewLocalImageStore(dir string) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &LocalImageStore{dir: dir}, nil
}

func (s *LocalImageStore) path(name string) string {
	// filepath.Base strips any path components smuggled into the name
	return filepath.Join(s.dir, filepath.Base(name))
}

func (s *LocalImageStore) Store(name string, r io.Reader) error {
	f, err := os.Create(s.path(name))
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return err
	}
	return nil
}

func (s *LocalImageStore) Delete(name string) error {
	err := os.Remove(s.path(name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *LocalImageStore) Exists(name string) bool {
	_, err := os.Stat(s.path(name))
	return err == nil
}

// MemoryImageStore is the test double for ImageStore.
type MemoryImageStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func NewMemoryImageStore() *MemoryImageStore {
	return &MemoryImageStore{files: make(map[string][]byte)}
}

func (s *MemoryImageStore) Store(name string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = data
	return nil
}

func (s *MemoryImageStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, name)
	return nil
}

func (s *MemoryImageStore) Exists(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[name]
	return ok
}
