package events

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"example.com/exercisetracker/internal/observability"
)

var (
	// ErrQueueFull is returned when the dispatch buffer has no room for another event.
	ErrQueueFull = errors.New("events: dispatch queue full")
	// ErrDispatcherClosed is returned by Publish after Close.
	ErrDispatcherClosed = errors.New("events: dispatcher closed")
)

// Dispatcher queues events in memory and delivers them from a background goroutine,
// so request handlers never wait on the broker.
type Dispatcher struct {
	next        Publisher
	queue       chan ExerciseLogged
	sendTimeout time.Duration
	logger      *log.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewDispatcher constructs a Dispatcher that forwards to next.
func NewDispatcher(next Publisher, buffer int, sendTimeout time.Duration, logger *log.Logger) *Dispatcher {
	if buffer < 1 {
		buffer = 1
	}
	if logger == nil {
		logger = log.New(log.Writer(), "[events] ", log.LstdFlags)
	}
	return &Dispatcher{
		next:        next,
		queue:       make(chan ExerciseLogged, buffer),
		sendTimeout: sendTimeout,
		logger:      logger,
		done:        make(chan struct{}),
	}
}

// Publish enqueues the event and returns immediately.
func (d *Dispatcher) Publish(_ context.Context, event ExerciseLogged) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrDispatcherClosed
	}
	select {
	case d.queue <- event:
		return nil
	default:
		observability.RecordPublishDropped()
		return ErrQueueFull
	}
}

// Start delivers queued events until Close is called and the backlog is drained.
// It should be called in a goroutine.
func (d *Dispatcher) Start() {
	defer close(d.done)

	for event := range d.queue {
		d.deliver(event)
	}
}

func (d *Dispatcher) deliver(event ExerciseLogged) {
	ctx := context.Background()
	if d.sendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.sendTimeout)
		defer cancel()
	}
	if err := d.next.Publish(ctx, event); err != nil {
		d.logger.Printf("deliver %s (record=%s): %v", ExerciseLoggedType, event.RecordID, err)
	}
}

// Close stops accepting events. Events already queued are still delivered.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.closed {
		d.closed = true
		close(d.queue)
	}
}

// Wait blocks until Start has drained the queue or ctx expires.
func (d *Dispatcher) Wait(ctx context.Context) error {
	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
