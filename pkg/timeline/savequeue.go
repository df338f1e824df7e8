package timeline

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/threadline/go-sdk/pkg/messages"
	"github.com/threadline/go-sdk/pkg/messages/formats"
)

// Store is the persistence collaborator contract: it receives batches of
// messages in the persisted v2 shape.
type Store interface {
	SaveMessages(ctx context.Context, batch []formats.V2Message) error
}

// SaveQueueOptions configures the batching save queue.
type SaveQueueOptions struct {
	// BatchSize is the maximum number of messages per store call.
	BatchSize int
	// FlushInterval is how often the background loop drains the timeline.
	FlushInterval time.Duration
	// Logger receives flush failures. Defaults to a discard logger.
	Logger logrus.FieldLogger
}

// DefaultSaveQueueOptions returns default save queue options.
func DefaultSaveQueueOptions() SaveQueueOptions {
	return SaveQueueOptions{
		BatchSize:     100,
		FlushInterval: 500 * time.Millisecond,
		Logger:        discardLogger(),
	}
}

// SaveQueue periodically drains a timeline's unsaved messages and hands them
// to the store in batches. A failed flush keeps its messages queued, so
// nothing handed out by a drain is lost: the drain is at-most-once, the save
// is at-least-once.
type SaveQueue struct {
	tl    *Timeline
	store Store
	opts  SaveQueueOptions

	mu      sync.Mutex
	pending []*messages.Message

	started   bool
	closeOnce sync.Once
	closeCh   chan struct{}
	doneCh    chan struct{}
}

// NewSaveQueue creates a save queue for the given timeline and store.
func NewSaveQueue(tl *Timeline, store Store, options ...SaveQueueOptions) *SaveQueue {
	opts := DefaultSaveQueueOptions()
	if len(options) > 0 {
		opts = options[0]
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultSaveQueueOptions().BatchSize
	}
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = DefaultSaveQueueOptions().FlushInterval
	}
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}

	return &SaveQueue{
		tl:      tl,
		store:   store,
		opts:    opts,
		closeCh: make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// Start runs the background flush loop until Close is called or the context
// is cancelled.
func (q *SaveQueue) Start(ctx context.Context) {
	q.mu.Lock()
	if q.started {
		q.mu.Unlock()
		return
	}
	q.started = true
	q.mu.Unlock()

	go func() {
		defer close(q.doneCh)
		ticker := time.NewTicker(q.opts.FlushInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-q.closeCh:
				return
			case <-ticker.C:
				if err := q.Flush(ctx); err != nil {
					q.opts.Logger.WithError(err).Warn("save queue flush failed; batch kept for retry")
				}
			}
		}
	}()
}

// Flush drains the timeline and writes everything pending. Batches are
// saved concurrently; any batch that fails is re-queued and the first error
// is returned.
func (q *SaveQueue) Flush(ctx context.Context) error {
	q.mu.Lock()
	q.pending = append(q.pending, q.tl.DrainUnsaved()...)
	pending := q.pending
	q.pending = nil
	q.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}

	var failed struct {
		sync.Mutex
		msgs []*messages.Message
	}

	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < len(pending); start += q.opts.BatchSize {
		end := start + q.opts.BatchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[start:end]

		g.Go(func() error {
			records := make([]formats.V2Message, 0, len(batch))
			for _, m := range batch {
				records = append(records, formats.CanonicalToV2(m))
			}
			if err := q.store.SaveMessages(ctx, records); err != nil {
				failed.Lock()
				failed.msgs = append(failed.msgs, batch...)
				failed.Unlock()
				return err
			}
			return nil
		})
	}

	err := g.Wait()
	if len(failed.msgs) > 0 {
		q.mu.Lock()
		q.pending = append(failed.msgs, q.pending...)
		q.mu.Unlock()
	}
	return err
}

// Pending returns the number of messages held for retry.
func (q *SaveQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Close stops the background loop and performs a final flush.
func (q *SaveQueue) Close(ctx context.Context) error {
	q.closeOnce.Do(func() { close(q.closeCh) })
	q.mu.Lock()
	started := q.started
	q.mu.Unlock()
	if started {
		<-q.doneCh
	}
	return q.Flush(ctx)
}
