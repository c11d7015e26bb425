// Package eventbus provides an in-process pub/sub bus for plan events.
// Recorders publish after the manifest write; subscribers process events
// on a single dispatch goroutine.
package eventbus

import (
	"context"
	"log"
	"sync"

	"github.com/matthewbaird/dashgen/internal/event"
)

// Handler processes a plan event. Implementations must be safe for
// concurrent calls from different goroutines.
type Handler interface {
	HandleEvent(ctx context.Context, evt event.PlanEvent) error
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, evt event.PlanEvent) error

func (f HandlerFunc) HandleEvent(ctx context.Context, evt event.PlanEvent) error {
	return f(ctx, evt)
}

// Bus is a simple in-process event bus. Events are published to a buffered
// channel and dispatched to all subscribers in order on one goroutine.
type Bus struct {
	mu          sync.RWMutex
	subscribers []namedHandler
	closed      bool
	events      chan event.PlanEvent
	done        chan struct{}
}

type namedHandler struct {
	name    string
	handler Handler
}

// New creates a new Bus with the given channel buffer size.
func New(bufSize int) *Bus {
	if bufSize < 1 {
		bufSize = 256
	}
	return &Bus{
		events: make(chan event.PlanEvent, bufSize),
		done:   make(chan struct{}),
	}
}

// Subscribe registers a named handler. Must be called before Start.
func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, namedHandler{name: name, handler: h})
}

// Publish sends an event to the bus. Non-blocking: if the buffer is full or
// the bus is stopped the event is dropped and a warning is logged.
func (b *Bus) Publish(_ context.Context, evt event.PlanEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		log.Printf("eventbus: stopped, dropping event %s (%s)", evt.EventType, evt.ID)
		return
	}
	select {
	case b.events <- evt:
	default:
		log.Printf("eventbus: buffer full, dropping event %s (%s)", evt.EventType, evt.ID)
	}
}

// Start begins the consumer goroutine. It processes events until Stop is
// called or ctx is cancelled; events already buffered are drained first.
func (b *Bus) Start(ctx context.Context) {
	go func() {
		defer close(b.done)
		for {
			select {
			case evt, ok := <-b.events:
				if !ok {
					return
				}
				b.dispatch(ctx, evt)
			case <-ctx.Done():
				b.drain(ctx)
				return
			}
		}
	}()
}

func (b *Bus) drain(ctx context.Context) {
	for {
		select {
		case evt, ok := <-b.events:
			if !ok {
				return
			}
			b.dispatch(ctx, evt)
		default:
			return
		}
	}
}

// Stop closes the bus and waits for the consumer goroutine to finish.
// Start must have been called.
func (b *Bus) Stop() {
	b.mu.Lock()
	if !b.closed {
		b.closed = true
		close(b.events)
	}
	b.mu.Unlock()
	<-b.done
}

func (b *Bus) dispatch(ctx context.Context, evt event.PlanEvent) {
	b.mu.RLock()
	subs := b.subscribers
	b.mu.RUnlock()

	for _, s := range subs {
		if err := s.handler.HandleEvent(ctx, evt); err != nil {
			log.Printf("eventbus: %s handler error for %s: %v", s.name, evt.EventType, err)
		}
	}
}
