package runtime

import (
	"chat-hub/domain"
	"chat-hub/domain/event"
	"chat-hub/mocks"
	"chat-hub/moderation"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestPipeline_Delivery_Precedes_Persistence(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	broadcaster := mocks.NewMockIBroadcaster(ctrl)
	moderator, err := moderation.NewModerator(nil, '*')
	req.NoError(err)

	pipeline := NewPipeline(slog.Default(), broadcaster, moderator, 8)

	cmd := domain.SubmitMessageCommand{
		ChatID:     "chat-42",
		Members:    []string{"alice", "bob"},
		SenderID:   "alice",
		SenderName: "Alice",
		Content:    "hello there",
	}

	var delivered event.NewMessage

	// Then the realtime copy goes out first, its alert second
	gomock.InOrder(
		broadcaster.EXPECT().
			Broadcast(gomock.Any(), cmd.Members, gomock.AssignableToTypeOf(event.NewMessage{})).
			Do(func(_ context.Context, _ []string, e event.Event) {
				delivered = e.(event.NewMessage)
			}),
		broadcaster.EXPECT().
			Broadcast(gomock.Any(), cmd.Members, event.NewMessageAlert{ChatID: cmd.ChatID}),
	)

	// When submitting
	req.NoError(pipeline.Submit(context.Background(), cmd))

	// Then the realtime record carries the submission
	req.Equal(cmd.ChatID, delivered.ChatID)
	req.Equal("hello there", delivered.Message.Content)
	req.Equal(domain.Sender{ID: "alice", Name: "Alice"}, delivered.Message.Sender)
	req.NotZero(delivered.Message.ID)
	req.False(delivered.Message.CreatedAt.IsZero())

	// And the durable write was enqueued after delivery completed
	req.Equal(1, pipeline.QueueDepth())
	job := <-pipeline.Jobs()
	req.Equal("alice", job.SenderID)
	req.Equal(domain.ChatID("chat-42"), job.ChatID)
	req.Equal("hello there", job.Content)
	req.Equal(delivered.Message.CreatedAt, job.SubmittedAt)
}

func TestPipeline_Censors_Before_Delivery_And_Persistence(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	broadcaster := mocks.NewMockIBroadcaster(ctrl)
	moderator, err := moderation.NewModerator([]string{"badger"}, '*')
	req.NoError(err)

	pipeline := NewPipeline(slog.Default(), broadcaster, moderator, 1)

	cmd := domain.SubmitMessageCommand{
		ChatID:   "chat-7",
		Members:  []string{"alice"},
		SenderID: "alice",
		Content:  "release the badger",
	}

	var delivered event.NewMessage
	broadcaster.EXPECT().
		Broadcast(gomock.Any(), cmd.Members, gomock.AssignableToTypeOf(event.NewMessage{})).
		Do(func(_ context.Context, _ []string, e event.Event) {
			delivered = e.(event.NewMessage)
		})
	broadcaster.EXPECT().
		Broadcast(gomock.Any(), cmd.Members, gomock.AssignableToTypeOf(event.NewMessageAlert{}))

	req.NoError(pipeline.Submit(context.Background(), cmd))

	// Then neither the recipients nor the durable log see the original word
	req.Equal("release the ******", delivered.Message.Content)
	job := <-pipeline.Jobs()
	req.Equal("release the ******", job.Content)
}

func TestPipeline_Full_Queue_Drops_Durable_Write_Only(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	broadcaster := mocks.NewMockIBroadcaster(ctrl)
	moderator, err := moderation.NewModerator(nil, '*')
	req.NoError(err)

	// Given a persist queue with room for a single job
	pipeline := NewPipeline(slog.Default(), broadcaster, moderator, 1)

	cmd := domain.SubmitMessageCommand{
		ChatID:   "chat-9",
		Members:  []string{"alice"},
		SenderID: "alice",
		Content:  "first",
	}

	// Then delivery happens for both submissions regardless
	broadcaster.EXPECT().Broadcast(gomock.Any(), gomock.Any(), gomock.Any()).Times(4)

	// When submitting twice without a worker draining the queue
	req.NoError(pipeline.Submit(context.Background(), cmd))
	cmd.Content = "second"
	req.NoError(pipeline.Submit(context.Background(), cmd))

	// Then the second durable write was dropped, not blocked on
	req.Equal(1, pipeline.QueueDepth())
	job := <-pipeline.Jobs()
	req.Equal("first", job.Content)
}
