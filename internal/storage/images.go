package storage

import (
	"context"
	"io"
	"time"
)

// Upload is an image file received with a request.
type Upload struct {
	Filename string
	Content  io.Reader
}

// Images saves uploads under generated names and hands replaced images to a
// Janitor.
type Images struct {
	store   Store
	janitor *Janitor
	now     func() time.Time
}

// NewImages creates an Images facade over store.
func NewImages(store Store, janitor *Janitor) *Images {
	return &Images{store: store, janitor: janitor, now: time.Now}
}

// Save stores up under a fresh name and returns it. A nil upload is a no-op
// returning "".
func (i *Images) Save(ctx context.Context, kind Kind, up *Upload) (string, error) {
	if up == nil {
		return "", nil
	}
	name := NewFilename(up.Filename, i.now())
	if err := i.store.Save(ctx, kind, name, up.Content); err != nil {
		return "", err
	}
	return name, nil
}

// Discard removes the named image in the background.
func (i *Images) Discard(kind Kind, name string) {
	i.janitor.Discard(kind, name)
}

// Wait blocks until pending removals finish.
func (i *Images) Wait() {
	i.janitor.Wait()
}
