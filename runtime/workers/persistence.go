package workers

import (
	"chat-hub/contract"
	"chat-hub/repositories"
	"chat-hub/runtime"
	"context"
	"log/slog"

	"github.com/google/uuid"
)

var _ contract.Worker = (*PersistenceWorker)(nil)

// PersistenceWorker drains the pipeline's persist queue into the message
// repository. Run several instances under the supervisor to bound the
// number of concurrent durable writes; the buffered queue plus this pool
// size is the whole backpressure policy.
//
// A storage failure is logged and the message is gone from the durable
// log: no retry, no notification to the sender, and no effect on the
// realtime delivery that already happened. The worker's lifetime is tied
// to the process, not to any connection, so a disconnect never cancels an
// in-flight write.
type PersistenceWorker struct {
	log   *slog.Logger
	store repositories.IMessageRepository
	jobs  <-chan runtime.PersistJob
}

func NewPersistenceWorker(log *slog.Logger, store repositories.IMessageRepository,
	jobs <-chan runtime.PersistJob) *PersistenceWorker {
	return &PersistenceWorker{log: log, store: store, jobs: jobs}
}

func (w *PersistenceWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case job, ok := <-w.jobs:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			w.persist(job)
		}
	}
}

func (w *PersistenceWorker) persist(job runtime.PersistJob) {
	record := repositories.DiskMessage{
		// Durable id, independent of the realtime record's ephemeral id.
		ID:          uuid.New(),
		ChatID:      job.ChatID,
		Sender:      job.SenderID,
		Content:     job.Content,
		Attachments: job.Attachments,
		At:          job.SubmittedAt,
	}
	if err := w.store.StoreMessage(record); err != nil {
		w.log.Error("persisting message failed",
			"chat", job.ChatID,
			"sender", job.SenderID,
			"error", err)
	}
}
