package tokenstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

var _ Storage = (*FileStorage)(nil)

// FileStorage persists session values as a JSON object in a single file, the
// closest analogue to the browser localStorage the web client uses. Writes go
// through on every Set/Delete so a crash never loses more than the in-flight
// mutation.
type FileStorage struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// NewFileStorage opens (or creates) the session file at path.
func NewFileStorage(path string) (*FileStorage, error) {
	fs := &FileStorage{
		path:   path,
		values: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fs, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[NewFileStorage] os.ReadFile")
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &fs.values); err != nil {
			return nil, errors.Wrap(err, "[NewFileStorage] corrupt session file")
		}
	}
	return fs, nil
}

func (f *FileStorage) Get(key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[key], nil
}

func (f *FileStorage) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
	return f.flush()
}

func (f *FileStorage) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.values, key)
	return f.flush()
}

// flush writes the whole map out. Callers must hold the lock.
func (f *FileStorage) flush() error {
	data, err := json.Marshal(f.values)
	if err != nil {
		return errors.Wrap(err, "[FileStorage.flush] json.Marshal")
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return errors.Wrap(err, "[FileStorage.flush] os.MkdirAll")
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return errors.Wrap(err, "[FileStorage.flush] os.WriteFile")
	}
	return nil
}
