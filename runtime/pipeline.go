package runtime

import (
	"chat-hub/contract"
	"chat-hub/domain"
	"chat-hub/domain/event"
	"chat-hub/errors"
	"chat-hub/moderation"
	"context"
	"log/slog"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"
)

// PersistJob is the unit handed to the persistence workers once realtime
// delivery has completed.
type PersistJob struct {
	SenderID    string
	ChatID      domain.ChatID
	Content     string
	Attachments []domain.Attachment
	SubmittedAt time.Time
}

// Pipeline ingests message submissions: realtime delivery first, durable
// persistence handed off out of band. The two are deliberately decoupled:
// recipients may see a message live that later fails to reach storage, and
// nothing retracts it. Perceived latency wins over durability here.
type Pipeline struct {
	log         *slog.Logger
	broadcaster contract.IBroadcaster
	moderator   moderation.Moderator
	jobs        chan PersistJob
}

func NewPipeline(log *slog.Logger, broadcaster contract.IBroadcaster,
	moderator moderation.Moderator, queueSize int) *Pipeline {
	return &Pipeline{
		log:         log,
		broadcaster: broadcaster,
		moderator:   moderator,
		jobs:        make(chan PersistJob, queueSize),
	}
}

// Jobs exposes the persist queue to the worker pool.
func (p *Pipeline) Jobs() <-chan PersistJob { return p.jobs }

// QueueDepth reports the number of pending durable writes, for telemetry.
func (p *Pipeline) QueueDepth() int { return len(p.jobs) }

// Submit builds the realtime record, broadcasts NEW_MESSAGE and its
// companion NEW_MESSAGE_ALERT to the member set, then enqueues the durable
// write. The enqueue never blocks: when the queue is full the durable copy
// is dropped and logged, while the already-completed delivery stands.
func (p *Pipeline) Submit(ctx context.Context, cmd domain.SubmitMessageCommand) error {
	content, matched := p.moderator.Censor(cmd.Content)
	if len(matched) > 0 {
		info := whatlanggo.Detect(cmd.Content)
		p.log.Warn("censored message content",
			"chat", cmd.ChatID,
			"sender", cmd.SenderID,
			"hits", len(matched),
			"lang", info.Lang.Iso6391())
	}

	message := domain.RealtimeMessage{
		ID:          uuid.New(),
		Content:     content,
		Sender:      domain.Sender{ID: cmd.SenderID, Name: cmd.SenderName},
		ChatID:      cmd.ChatID,
		Attachments: cmd.Attachments,
		CreatedAt:   time.Now().UTC(),
	}

	p.broadcaster.Broadcast(ctx, cmd.Members, event.NewMessage{ChatID: cmd.ChatID, Message: message})
	p.broadcaster.Broadcast(ctx, cmd.Members, event.NewMessageAlert{ChatID: cmd.ChatID})

	job := PersistJob{
		SenderID:    cmd.SenderID,
		ChatID:      cmd.ChatID,
		Content:     content,
		Attachments: cmd.Attachments,
		SubmittedAt: message.CreatedAt,
	}
	select {
	case p.jobs <- job:
	default:
		p.log.Error("dropping durable write",
			"chat", cmd.ChatID,
			"sender", cmd.SenderID,
			"error", errors.ErrPersistQueueFull)
	}
	return nil
}
