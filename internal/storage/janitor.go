package storage

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// removeTimeout bounds a single background removal.
const removeTimeout = 30 * time.Second

// Janitor removes images in the background. Failures are logged and never
// reach the request that scheduled the removal.
type Janitor struct {
	store Store
	log   zerolog.Logger
	wg    sync.WaitGroup
}

// NewJanitor creates a Janitor removing from store.
func NewJanitor(store Store, log zerolog.Logger) *Janitor {
	return &Janitor{store: store, log: log}
}

// Discard schedules removal of the named image. Empty names are ignored.
func (j *Janitor) Discard(kind Kind, name string) {
	if name == "" {
		return
	}

	j.wg.Add(1)
	go func() {
		defer j.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), removeTimeout)
		defer cancel()

		if err := j.store.Remove(ctx, kind, name); err != nil {
			j.log.Warn().Err(err).Str("kind", string(kind)).Str("image", name).Msg("failed to remove image")
			return
		}
		j.log.Debug().Str("kind", string(kind)).Str("image", name).Msg("image removed")
	}()
}

// Wait blocks until every scheduled removal has finished.
func (j *Janitor) Wait() {
	j.wg.Wait()
}
