package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/99minutos/storefront/internal/api/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// ErrStopped is returned for jobs submitted after the serializer stopped.
var ErrStopped = errors.New("queue: serializer stopped")

type job struct {
	ctx  context.Context
	key  string
	fn   func(context.Context) error
	done chan error
}

// Serializer routes mutations to a fixed set of workers using consistent
// hashing on a resource key, so at most one mutation per resource is in
// flight and later ones run in submission order.
type Serializer struct {
	workers []chan job
	quit    chan struct{}
	log     zerolog.Logger
}

// NewSerializer creates a Serializer with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewSerializer(numWorkers int, log zerolog.Logger) *Serializer {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	s := &Serializer{
		workers: make([]chan job, numWorkers),
		quit:    make(chan struct{}),
		log:     log,
	}
	for i := range s.workers {
		s.workers[i] = make(chan job, channelBuffer)
	}
	return s
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled;
// pending and later submissions then fail with ErrStopped.
func (s *Serializer) Start(ctx context.Context) {
	for i, ch := range s.workers {
		go s.runWorker(ctx, i, ch)
	}
	go func() {
		<-ctx.Done()
		close(s.quit)
	}()
}

// Do runs fn on the worker owning key and waits for it to finish.
// Jobs for the same key never overlap.
func (s *Serializer) Do(ctx context.Context, key string, fn func(context.Context) error) error {
	j := job{ctx: ctx, key: key, fn: fn, done: make(chan error, 1)}
	idx := s.shardIndex(key)

	select {
	case s.workers[idx] <- j:
		metrics.SerializerQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	case <-ctx.Done():
		return ctx.Err()
	case <-s.quit:
		return ErrStopped
	}

	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-s.quit:
		return ErrStopped
	}
}

// shardIndex maps a resource key deterministically to a worker index.
func (s *Serializer) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(s.workers)))
}

func (s *Serializer) runWorker(ctx context.Context, id int, ch <-chan job) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-ch:
			metrics.SerializerQueueDepth.WithLabelValues(label).Dec()
			if err := j.ctx.Err(); err != nil {
				j.done <- err
				continue
			}
			err := j.fn(j.ctx)
			if err != nil {
				s.log.Debug().Err(err).
					Str("key", j.key).
					Int("worker_id", id).
					Msg("serialized job failed")
			}
			j.done <- err
		}
	}
}
