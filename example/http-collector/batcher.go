// This is just example
package main

import (
	"context"
	"time"

	"github.com/lif0/go-safestop"
	"github.com/rs/zerolog"
)

// eventBatcher buffers events in memory and flushes them to a file.
// Every flush is a critical section: a stop never cuts a write in half.
type eventBatcher struct {
	name  string
	store *memStore
	fw    *fileWriter

	c   *safestop.Coordinator
	log zerolog.Logger
}

func newBatcher(c *safestop.Coordinator, log zerolog.Logger, name, filePath string) *eventBatcher {
	return &eventBatcher{
		name:  name,
		store: newMemStore(),
		fw:    &fileWriter{filePath: filePath},
		c:     c,
		log:   log.With().Str("batcher", name).Logger(),
	}
}

func (b *eventBatcher) Store(data []string) {
	b.store.Store(data)
}

// Run flushes every interval until the coordinator is stopped.
func (b *eventBatcher) Run(interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-b.c.Stopped():
			return
		case <-t.C:
			err := b.c.Critical(context.Background(), func(ctx context.Context) error {
				return b.flush()
			})
			if err != nil {
				b.log.Error().Err(err).Msg("periodic flush failed")
			}
		}
	}
}

// FinalFlush is registered as a drain hook: it runs once no request can add
// events anymore.
func (b *eventBatcher) FinalFlush(ctx context.Context) error {
	defer b.log.Info().Msg("final flush done")
	return b.flush()
}

func (b *eventBatcher) flush() error {
	data := b.store.GetAndClear()
	if len(data) == 0 {
		return nil
	}

	if err := b.fw.WriteToDisk(data); err != nil {
		// keep the events for the next attempt
		b.store.Store(data)
		return err
	}

	b.log.Debug().Int("events", len(data)).Msg("flushed events to disk")
	return nil
}
