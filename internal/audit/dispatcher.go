package audit

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/RomanCsn/workshop-DFS/internal/metrics"
)

type Event struct {
	UserID   *string
	Action   string
	Entity   string
	EntityID *string
	Metadata any
}

// Sink persists one audit event.
type Sink interface {
	Log(ctx context.Context, ev Event) error
}

// Dispatcher writes events from a single background goroutine. Dispatch
// never blocks; events are dropped when the queue is full.
type Dispatcher struct {
	sink  Sink
	queue chan Event
	log   zerolog.Logger
	wg    sync.WaitGroup
	once  sync.Once
}

func NewDispatcher(sink Sink, log zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		sink:  sink,
		queue: make(chan Event, 100),
		log:   log.With().Str("component", "audit").Logger(),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for ev := range d.queue {
		if err := d.sink.Log(context.Background(), ev); err != nil {
			d.log.Error().
				Err(err).
				Str("action", ev.Action).
				Str("entity", ev.Entity).
				Msg("audit write failed")
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	defer func() {
		// Dispatch after Close must not crash a request.
		if recover() != nil {
			metrics.AuditDropped()
		}
	}()

	select {
	case d.queue <- ev:
	default:
		metrics.AuditDropped()
		d.log.Warn().Str("action", ev.Action).Msg("audit queue full, dropping event")
	}
}

// Close drains the queue and waits for the worker.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
}

// Helpers for the string identifiers used across the API.
func Ref(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
