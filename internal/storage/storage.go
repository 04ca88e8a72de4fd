// Package storage persists uploaded images and removes replaced ones.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// Kind selects the image subtree.
type Kind string

const (
	KindUser    Kind = "users"
	KindProduct Kind = "products"
)

// Store saves and removes image files referenced by filename only.
type Store interface {
	Save(ctx context.Context, kind Kind, name string, r io.Reader) error
	Remove(ctx context.Context, kind Kind, name string) error
}

// NewFilename builds a collision-resistant filename from the upload time and
// the extension of the original file name.
func NewFilename(original string, now time.Time) string {
	return fmt.Sprintf("%d%s", now.UnixNano(), strings.ToLower(filepath.Ext(original)))
}

// cleanName rejects names that could escape the kind's subtree.
func cleanName(name string) (string, error) {
	base := filepath.Base(name)
	if name == "" || base != name || base == "." || base == ".." {
		return "", fmt.Errorf("invalid image name %q", name)
	}
	return base, nil
}
