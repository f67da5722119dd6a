package runtime

import (
	"chat-hub/contract"
	"chat-hub/domain/event"
	"context"
	"log/slog"
	"time"

	"github.com/samber/lo"
)

// Broadcaster resolves a target identity set through the registry and
// delivers one event to each live connection. Delivery is at-most-once and
// fire-and-forget: no acknowledgement, no retry, no cross-target ordering.
// Per-connection ordering holds as long as callers issue broadcasts
// sequentially for a given inbound event, which the service layer does.
type Broadcaster struct {
	log             *slog.Logger
	registry        contract.IRegistry
	presence        contract.IPresence
	deliveryTimeout time.Duration
}

func NewBroadcaster(log *slog.Logger, registry contract.IRegistry,
	presence contract.IPresence, deliveryTimeout time.Duration) *Broadcaster {
	return &Broadcaster{
		log:             log,
		registry:        registry,
		presence:        presence,
		deliveryTimeout: deliveryTimeout,
	}
}

// Broadcast delivers e to every resolvable target. A slow or failing sink
// is logged and skipped; it can never abort the remaining deliveries or
// corrupt registry state.
func (b *Broadcaster) Broadcast(ctx context.Context, targets []string, e event.Event) {
	sinks := b.registry.Resolve(lo.Uniq(targets))
	for _, sink := range sinks {
		delivery, cancel := context.WithTimeout(ctx, b.deliveryTimeout)
		if err := sink.Consume(delivery, e); err != nil {
			b.log.Warn("event delivery failed", "event", e.Name(), "error", err)
		}
		cancel()
	}
}

// BroadcastPresence sends the online subset of targets to those same
// targets. The snapshot is scoped, not global: identities outside the
// target set are never disclosed.
func (b *Broadcaster) BroadcastPresence(ctx context.Context, targets []string) {
	targets = lo.Uniq(targets)
	b.Broadcast(ctx, targets, event.OnlineUsers{Users: b.presence.Scoped(targets)})
}
