package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/multierr"
)

// DefaultFile is the file used when no path is configured.
const DefaultFile = "storage.json"

// FileStore keeps every slot in a single JSON object on disk. The file is
// read on every GetItem and rewritten in full on every SetItem.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a FileStore backed by path.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultFile
	}
	return &FileStore{path: path}
}

// Path returns the backing file.
func (fs *FileStore) Path() string {
	return fs.path
}

func (fs *FileStore) GetItem(_ context.Context, key string) (string, bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	slots, err := fs.read()
	if err != nil {
		return "", false, err
	}
	v, ok := slots[key]
	return v, ok, nil
}

func (fs *FileStore) SetItem(_ context.Context, key, value string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	slots, err := fs.read()
	if err != nil {
		return err
	}
	slots[key] = value
	return fs.write(slots)
}

func (fs *FileStore) Close() error {
	return nil
}

func (fs *FileStore) read() (map[string]string, error) {
	slots := make(map[string]string)
	f, err := os.Open(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return slots, nil
		}
		return nil, fmt.Errorf("kv/file: open: %w", err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&slots); err != nil {
		return nil, fmt.Errorf("kv/file: decode %s: %w", fs.path, err)
	}
	// a file holding null decodes to a nil map
	if slots == nil {
		slots = make(map[string]string)
	}
	return slots, nil
}

func (fs *FileStore) write(slots map[string]string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(fs.path), filepath.Base(fs.path)+".*")
	if err != nil {
		return fmt.Errorf("kv/file: create temp: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	encErr := json.NewEncoder(tmp).Encode(slots)
	if err = multierr.Combine(encErr, tmp.Close()); err != nil {
		return fmt.Errorf("kv/file: write: %w", err)
	}
	if err = os.Rename(tmp.Name(), fs.path); err != nil {
		return fmt.Errorf("kv/file: rename: %w", err)
	}
	return nil
}
