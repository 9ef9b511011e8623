// Package storage abstracts the intermediate storage area the builds read
// extracts from and write profiles to.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotExist is returned by ReadFile when the named object does not exist.
var ErrNotExist = errors.New("object does not exist")

// Store reads and writes whole objects by name.
type Store interface {
	// ReadFile returns the full object contents, or an error wrapping
	// ErrNotExist when there is no such object.
	ReadFile(ctx context.Context, name string) ([]byte, error)
	// WriteFile replaces the object atomically from the reader's point of view.
	WriteFile(ctx context.Context, name string, data []byte) error
	// Location returns a human-readable location for name, used in logs.
	Location(name string) string
}

// Open returns the Store for uri: "s3://bucket/prefix" selects S3, anything
// else is treated as a local directory.
func Open(ctx context.Context, uri string) (Store, error) {
	if uri == "" {
		return nil, fmt.Errorf("storage uri is empty")
	}
	if strings.HasPrefix(uri, "s3://") {
		bucket, prefix, err := ParseS3URI(uri)
		if err != nil {
			return nil, err
		}
		return NewS3Store(ctx, bucket, prefix)
	}
	return NewLocalStore(uri), nil
}
