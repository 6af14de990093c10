package prefstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"gopkg.in/ghodss/yaml.v1"
)

// FileStore is a PreferenceStore persisted as a YAML mapping of string keys to string values.
//
// Every write rewrites the whole file through a temporary file and a rename, so the file is never
// left partially written.
type FileStore struct {
	path      string
	loggers   ldlog.Loggers
	values    map[string]string
	lock      sync.RWMutex
	closeCh   chan struct{}
	closeOnce sync.Once
}

// NewFileStore opens the store at path. A missing file is treated as an empty store; the file is
// created by the first write.
func NewFileStore(path string, loggers ldlog.Loggers) (*FileStore, error) {
	loggers.SetPrefix("PreferenceFile:")
	fs := &FileStore{
		path:    path,
		loggers: loggers,
		closeCh: make(chan struct{}),
	}
	values, err := readPreferenceFile(path)
	if err != nil {
		return nil, err
	}
	fs.values = values
	return fs, nil
}

func readPreferenceFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("unable to read preference file %q: %w", path, err)
	}
	values := map[string]string{}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("unable to parse preference file %q: %w", path, err)
		}
	}
	return values, nil
}

// Get returns a stored value.
func (fs *FileStore) Get(key string) (string, bool) {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	v, ok := fs.values[key]
	return v, ok
}

// Set stores a value and rewrites the file.
func (fs *FileStore) Set(key, value string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	if old, ok := fs.values[key]; ok && old == value {
		return nil
	}
	fs.values[key] = value
	return fs.writeLocked()
}

// Remove deletes values and rewrites the file.
func (fs *FileStore) Remove(keys ...string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	changed := false
	for _, k := range keys {
		if _, ok := fs.values[k]; ok {
			delete(fs.values, k)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return fs.writeLocked()
}

// Clear deletes all values and rewrites the file.
func (fs *FileStore) Clear() error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.values = map[string]string{}
	return fs.writeLocked()
}

func (fs *FileStore) writeLocked() error {
	data, err := yaml.Marshal(fs.values)
	if err != nil {
		return err
	}
	dir := filepath.Dir(fs.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(fs.path)+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, fs.path)
}

// Reload replaces the in-memory values with the current file contents.
func (fs *FileStore) Reload() error {
	values, err := readPreferenceFile(fs.path)
	if err != nil {
		return err
	}
	fs.lock.Lock()
	fs.values = values
	fs.lock.Unlock()
	return nil
}

// Watch starts reloading the store whenever the file changes on disk, until Close is called.
func (fs *FileStore) Watch() error {
	return watchFile(fs.path, fs.loggers, func() {
		if err := fs.Reload(); err != nil {
			fs.loggers.Error(err)
		}
	}, fs.closeCh)
}

// Close stops watching the file. It does not affect the stored values.
func (fs *FileStore) Close() error {
	fs.closeOnce.Do(func() { close(fs.closeCh) })
	return nil
}
