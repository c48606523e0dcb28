package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// FileStore persists the cache entry as a single JSON file. The write
// instant travels inside the envelope rather than via file mtime so all
// store drivers behave identically.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore writing to the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(ctx context.Context) (*Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "cache: read %s", s.path)
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, eris.Wrapf(err, "cache: decode %s", s.path)
	}
	return &e, nil
}

func (s *FileStore) Save(ctx context.Context, e *Entry) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrapf(err, "cache: mkdir %s", dir)
		}
	}

	data, err := json.Marshal(e)
	if err != nil {
		return eris.Wrap(err, "cache: encode entry")
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return eris.Wrapf(err, "cache: write %s", s.path)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
