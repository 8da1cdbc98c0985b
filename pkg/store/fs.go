// pkg/store/fs.go
package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

type fsStore struct {
	root string
}

// NewFSStore serves objects from a local directory laid out exactly like the
// bucket. Dev and test backend.
func NewFSStore(root string) Store {
	return &fsStore{root: root}
}

func (s *fsStore) Get(ctx context.Context, key string) (Object, error) {
	clean := path.Clean("/" + key)[1:]
	if clean == "" || strings.HasPrefix(clean, "..") {
		return Object{}, ErrNotFound
	}
	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(clean)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Object{}, ErrNotFound
		}
		return Object{}, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return Object{}, err
	}
	if fi.IsDir() {
		f.Close()
		return Object{}, ErrNotFound
	}
	return Object{Body: f, Size: fi.Size()}, nil
}
