package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStore keeps images on disk under <root>/images/<kind>/<name>.
type LocalStore struct {
	root string
}

// NewLocalStore creates the image subtrees below root.
func NewLocalStore(root string) (*LocalStore, error) {
	s := &LocalStore{root: root}
	for _, kind := range []Kind{KindUser, KindProduct} {
		if err := os.MkdirAll(s.dir(kind), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create image directory: %w", err)
		}
	}
	return s, nil
}

func (s *LocalStore) dir(kind Kind) string {
	return filepath.Join(s.root, "images", string(kind))
}

// Path returns the on-disk location of an image.
func (s *LocalStore) Path(kind Kind, name string) string {
	return filepath.Join(s.dir(kind), name)
}

// Save writes r to the named file.
func (s *LocalStore) Save(ctx context.Context, kind Kind, name string, r io.Reader) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(s.Path(kind, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create image %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return fmt.Errorf("failed to write image %s: %w", name, err)
	}
	return f.Close()
}

// Remove deletes the named file.
func (s *LocalStore) Remove(ctx context.Context, kind Kind, name string) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	if err := os.Remove(s.Path(kind, name)); err != nil {
		return fmt.Errorf("failed to remove image %s: %w", name, err)
	}
	return nil
}
