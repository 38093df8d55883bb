package storage

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Object describes a stored blob
type Object struct {
	Key  string // internal id, used for deletes
	URL  string // external reference returned to clients
	Size int64
}

// ObjectStore persists raw bytes and hands back a stable reference.
type ObjectStore interface {
	Put(ctx context.Context, prefix, name string, data []byte, contentType string) (*Object, error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ObjectKey builds "<prefix>/<uuid>-<name>" with the name reduced to safe characters
func ObjectKey(prefix, name string) string {
	base := unsafeChars.ReplaceAllString(path.Base(strings.ReplaceAll(name, "\\", "/")), "_")
	base = strings.Trim(base, "._")
	if base == "" {
		base = "object"
	}
	if len(base) > 128 {
		base = base[len(base)-128:]
	}
	key := uuid.NewString() + "-" + base
	if prefix = strings.Trim(prefix, "/"); prefix != "" {
		key = prefix + "/" + key
	}
	return key
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}

func describe(op, key string) string {
	return fmt.Sprintf("Object store %s failed for %q", op, key)
}
