package storage

import (
	"context"
	"sync"
	"time"

	"github.com/guttosm/quotepulse/internal/domain/models"
	"github.com/guttosm/quotepulse/internal/logger"
	"github.com/rs/zerolog"
)

// Journal defaults.
const (
	DefaultJournalBuffer = 1024
	DefaultFlushEvery    = 2 * time.Second
	DefaultBatchSize     = 100
)

// Journal writes call records in the background so tool calls never wait
// on the database. Records are batched and flushed when a batch fills, on
// a timer, and on Close. When the buffer is full new records are dropped
// and counted.
type Journal struct {
	repo       CallRepository
	queue      chan models.CallRecord
	batchSize  int
	flushEvery time.Duration
	log        zerolog.Logger

	mu      sync.Mutex
	dropped int64
	closed  bool

	done chan struct{}
}

// NewJournal starts the background writer. Call Close to flush and stop it.
func NewJournal(repo CallRepository, buffer, batchSize int, flushEvery time.Duration) *Journal {
	if buffer <= 0 {
		buffer = DefaultJournalBuffer
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if flushEvery <= 0 {
		flushEvery = DefaultFlushEvery
	}
	j := &Journal{
		repo:       repo,
		queue:      make(chan models.CallRecord, buffer),
		batchSize:  batchSize,
		flushEvery: flushEvery,
		log:        logger.With("journal"),
		done:       make(chan struct{}),
	}
	go j.run()
	return j
}

// Observe enqueues rec. It matches toolkit.Observer.
func (j *Journal) Observe(_ context.Context, rec models.CallRecord) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return
	}
	select {
	case j.queue <- rec:
	default:
		j.dropped++
		if j.dropped == 1 || j.dropped%100 == 0 {
			j.log.Warn().Int64("dropped", j.dropped).Msg("journal buffer full, dropping records")
		}
	}
}

// Dropped reports how many records were discarded because the buffer was full.
func (j *Journal) Dropped() int64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.dropped
}

// Close stops accepting records, flushes what is queued and waits for the
// writer to finish or ctx to expire.
func (j *Journal) Close(ctx context.Context) error {
	j.mu.Lock()
	if !j.closed {
		j.closed = true
		close(j.queue)
	}
	j.mu.Unlock()

	select {
	case <-j.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (j *Journal) run() {
	defer close(j.done)

	ticker := time.NewTicker(j.flushEvery)
	defer ticker.Stop()

	batch := make([]models.CallRecord, 0, j.batchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := j.repo.RecordCalls(ctx, batch); err != nil {
			j.log.Error().Err(err).Int("records", len(batch)).Msg("journal flush failed")
		}
		batch = batch[:0]
	}

	for {
		select {
		case rec, ok := <-j.queue:
			if !ok {
				flush()
				return
			}
			batch = append(batch, rec)
			if len(batch) >= j.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
