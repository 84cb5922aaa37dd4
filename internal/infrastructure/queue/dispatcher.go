package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/gerarics/ecommerce-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes audit events to a fixed set of workers using consistent
// hashing on the username, guaranteeing per-account event ordering in the
// audit trail.
type Dispatcher struct {
	workers []chan ports.AuditEvent
	writer  ports.AuditWriter
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, writer ports.AuditWriter, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.AuditEvent, numWorkers),
		writer:  writer,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.AuditEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an event to the worker responsible for its username.
// The call is non-blocking up to channelBuffer capacity; beyond that the
// event is dropped with a warning rather than stalling a login.
func (d *Dispatcher) Enqueue(event ports.AuditEvent) {
	select {
	case d.workers[d.shardIndex(event.Username)] <- event:
	default:
		d.log.Warn().
			Str("action", event.Action).
			Msg("audit queue full, event dropped")
	}
}

// shardIndex maps a username deterministically to a worker index.
func (d *Dispatcher) shardIndex(username string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.AuditEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.writer.Write(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("action", event.Action).
					Int("worker_id", id).
					Msg("audit write failed")
			}
		}
	}
}
