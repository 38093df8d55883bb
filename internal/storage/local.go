package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/localnerve/excel-analyzer/internal/types"
)

// LocalStore writes objects below a directory on disk
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates dir if needed. baseURL prefixes returned URLs.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid storage dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	if baseURL == "" {
		baseURL = "file://" + filepath.ToSlash(abs)
	}
	return &LocalStore{dir: abs, baseURL: baseURL}, nil
}

// Dir is the storage root
func (s *LocalStore) Dir() string {
	return s.dir
}

// Put writes data under a fresh key in prefix
func (s *LocalStore) Put(ctx context.Context, prefix, name string, data []byte, contentType string) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, types.NewStorageError(describe("upload", name), err)
	}

	key := ObjectKey(prefix, name)
	target, err := s.path(key)
	if err != nil {
		return nil, types.NewStorageError(describe("upload", key), err)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, types.NewStorageError(describe("upload", key), err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return nil, types.NewStorageError(describe("upload", key), err)
	}

	return &Object{Key: key, URL: joinURL(s.baseURL, key), Size: int64(len(data))}, nil
}

// Delete removes the file under key. Missing files are not an error.
func (s *LocalStore) Delete(ctx context.Context, key string) error {
	target, err := s.path(key)
	if err != nil {
		return types.NewStorageError(describe("delete", key), err)
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return types.NewStorageError(describe("delete", key), err)
	}
	return nil
}

// Ping checks the root is a writable directory
func (s *LocalStore) Ping(ctx context.Context) error {
	tmp, err := os.CreateTemp(s.dir, ".ping-*")
	if err != nil {
		return types.NewStorageError(describe("ping", s.dir), err)
	}
	name := tmp.Name()
	tmp.Close()
	return os.Remove(name)
}

func (s *LocalStore) path(key string) (string, error) {
	target := filepath.Join(s.dir, filepath.FromSlash(key))
	if !strings.HasPrefix(target, s.dir+string(os.PathSeparator)) {
		return "", fmt.Errorf("key %q escapes storage root", key)
	}
	return target, nil
}
