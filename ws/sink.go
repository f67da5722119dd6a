package ws

import (
	"chat-hub/domain/event"
	"context"
)

// Sink buffers events for one websocket connection. Fanout calls Consume;
// the connection's write pump owns the other end of the channel.
type Sink struct {
	Events chan event.Event
}

func NewSink(bufferSize int) *Sink {
	return &Sink{Events: make(chan event.Event, bufferSize)}
}

// Consume redirects the event through the concerned owner of the channel.
// The write pump will take it from now. A full buffer means a slow
// consumer: the event is dropped rather than blocking the fanout.
func (s *Sink) Consume(ctx context.Context, e event.Event) error {
	select {
	case s.Events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
