package services

import (
	"chat-hub/contract"
	"chat-hub/domain"
	"chat-hub/domain/event"
	"chat-hub/errors"
	"chat-hub/repositories"
	"context"
	"log/slog"
)

// IChatService is the surface the gateway and the external CRUD
// collaborators drive. Each inbound event maps to one method; the service
// issues its fan-out calls sequentially so per-connection ordering holds.
type IChatService interface {
	Connect(identity string, sink contract.EventSink)
	Joined(ctx context.Context, identity string, members []string)
	SubmitMessage(ctx context.Context, cmd domain.SubmitMessageCommand) error
	Disconnect(ctx context.Context, identity string, sink contract.EventSink)
	Messages(cmd domain.GetMessagesCommand) ([]domain.StoredMessage, *string, error)
	Notify(ctx context.Context, targets []string, text string)
	RefetchChats(ctx context.Context, targets []string)
}

type ChatService struct {
	log         *slog.Logger
	registry    contract.IRegistry
	presence    contract.IPresence
	broadcaster contract.IBroadcaster
	pipeline    contract.IPipeline
	messages    repositories.IMessageRepository
}

func NewChatService(log *slog.Logger, registry contract.IRegistry,
	presence contract.IPresence, broadcaster contract.IBroadcaster,
	pipeline contract.IPipeline, messages repositories.IMessageRepository) *ChatService {
	return &ChatService{
		log:         log,
		registry:    registry,
		presence:    presence,
		broadcaster: broadcaster,
		pipeline:    pipeline,
		messages:    messages,
	}
}

// Connect registers an authenticated connection. Last writer wins: a
// second connection for the same identity silently replaces the first,
// which stays open at the transport level but is no longer resolvable.
func (s *ChatService) Connect(identity string, sink contract.EventSink) {
	if _, ok := s.registry.Current(identity); ok {
		s.log.Info("replacing existing connection", "identity", identity)
	}
	s.registry.Register(identity, sink)
}

// Joined marks the identity online and broadcasts the scoped online set to
// the declared members plus the identity itself. A declaration from an
// unregistered connection is ignored: presence requires an open connection.
func (s *ChatService) Joined(ctx context.Context, identity string, members []string) {
	if _, ok := s.registry.Current(identity); !ok {
		s.log.Warn("ignoring joined declaration",
			"identity", identity,
			"error", errors.ErrNotConnected)
		return
	}
	s.presence.MarkOnline(identity, members)
	s.broadcaster.BroadcastPresence(ctx, append(members, identity))
}

func (s *ChatService) SubmitMessage(ctx context.Context, cmd domain.SubmitMessageCommand) error {
	return s.pipeline.Submit(ctx, cmd)
}

// Disconnect tears down registry and presence state for a closing
// connection. The sink comparison guards the last-writer-wins race: when
// the identity already reconnected elsewhere, the stale teardown is a
// no-op.
func (s *ChatService) Disconnect(ctx context.Context, identity string, sink contract.EventSink) {
	current, ok := s.registry.Current(identity)
	if !ok || current != sink {
		return
	}
	s.registry.Unregister(identity)
	contacts := s.presence.MarkOffline(identity)
	if len(contacts) > 0 {
		s.broadcaster.BroadcastPresence(ctx, contacts)
	}
}

func (s *ChatService) Messages(cmd domain.GetMessagesCommand) ([]domain.StoredMessage, *string, error) {
	messages, cursor, err := s.messages.GetMessages(cmd.ChatID, cmd.Cursor)
	return repositories.ToStored(messages), cursor, err
}

// Notify pushes a human-readable notice to the targets, on behalf of chat
// management flows owned by the external collaborators.
func (s *ChatService) Notify(ctx context.Context, targets []string, text string) {
	s.broadcaster.Broadcast(ctx, targets, event.Alert{Text: text})
}

// RefetchChats tells the targets their chat list went stale.
func (s *ChatService) RefetchChats(ctx context.Context, targets []string) {
	s.broadcaster.Broadcast(ctx, targets, event.RefetchChats{})
}
