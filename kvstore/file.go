package kvstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
)

// Dir is a Store that keeps each key in its own file.
type Dir struct {
	root string
}

// OpenDir returns a store in dir, creating it if needed. An empty dir means
// the current directory.
func OpenDir(dir string) (*Dir, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create store directory %q: %w", dir, err)
	}
	return &Dir{root: dir}, nil
}

// file returns the path of key. Keys are escaped so that any string is a valid name.
func (d *Dir) file(key string) string {
	return filepath.Join(d.root, url.PathEscape(key)+".json")
}

func (d *Dir) Get(_ context.Context, key string) (string, bool, error) {
	content, err := os.ReadFile(d.file(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(content), true, nil
}

// Set writes value to a temporary file and renames it, so a crash never
// leaves a half written value.
func (d *Dir) Set(_ context.Context, key, value string) error {
	f, err := os.CreateTemp(d.root, ".tmp-*")
	if err != nil {
		return err
	}
	_, err = f.WriteString(value)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.Name())
		return err
	}
	return os.Rename(f.Name(), d.file(key))
}

func (d *Dir) Close() error { return nil }
