package workers

import (
	"chat-hub/domain"
	"chat-hub/mocks"
	"chat-hub/repositories"
	"chat-hub/runtime"
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestPersistenceWorker_Stores_Queued_Job(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockIMessageRepository(ctrl)
	jobs := make(chan runtime.PersistJob, 1)
	worker := NewPersistenceWorker(slog.Default(), store, jobs)

	submittedAt := time.Now().UTC()
	var record repositories.DiskMessage

	// Then the job becomes exactly one durable record
	store.EXPECT().
		StoreMessage(gomock.Any()).
		DoAndReturn(func(message repositories.DiskMessage) error {
			record = message
			return nil
		}).
		Times(1)

	// Given one queued job, then a closed queue so Run terminates
	jobs <- runtime.PersistJob{
		SenderID:    "alice",
		ChatID:      "chat-42",
		Content:     "hello there",
		SubmittedAt: submittedAt,
	}
	close(jobs)

	req.NoError(worker.Run(context.Background()))

	// Then the record carries the job fields with its own durable id
	req.Equal(domain.ChatID("chat-42"), record.ChatID)
	req.Equal("alice", record.Sender)
	req.Equal("hello there", record.Content)
	req.Equal(submittedAt, record.At)
	req.NotZero(record.ID)
}

func TestPersistenceWorker_Storage_Failure_Is_Not_Retried(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockIMessageRepository(ctrl)
	jobs := make(chan runtime.PersistJob, 1)
	worker := NewPersistenceWorker(slog.Default(), store, jobs)

	// Given storage failing for the job: one attempt, no retry
	store.EXPECT().
		StoreMessage(gomock.Any()).
		Return(fmt.Errorf("disk full")).
		Times(1)

	jobs <- runtime.PersistJob{SenderID: "alice", ChatID: "chat-42", Content: "lost"}
	close(jobs)

	// Then the worker survives the failure and drains to completion
	req.NoError(worker.Run(context.Background()))
}

func TestPersistenceWorker_Stops_On_Context_Cancel(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockIMessageRepository(ctrl)
	jobs := make(chan runtime.PersistJob)
	worker := NewPersistenceWorker(slog.Default(), store, jobs)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req.ErrorIs(worker.Run(ctx), context.Canceled)
}
