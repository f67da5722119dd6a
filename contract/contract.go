//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-hub/domain"
	"chat-hub/domain/event"
	"context"
	"reflect"
)

// EventSink is one live connection's inbox. Consume must not block longer
// than the caller's context allows.
type EventSink interface {
	Consume(ctx context.Context, e event.Event) error
}

type IRegistry interface {
	Register(identity string, sink EventSink)
	Unregister(identity string)
	Resolve(identities []string) []EventSink
	Current(identity string) (EventSink, bool)
}

type IPresence interface {
	MarkOnline(identity string, contacts []string)
	MarkOffline(identity string) []string
	Snapshot() []string
	Scoped(targets []string) []string
}

type IBroadcaster interface {
	Broadcast(ctx context.Context, targets []string, e event.Event)
	BroadcastPresence(ctx context.Context, targets []string)
}

type IPipeline interface {
	Submit(ctx context.Context, cmd domain.SubmitMessageCommand) error
}

// IAuthenticator is the narrow contract with the external authentication
// collaborator: a transport credential in, a verified identity out.
type IAuthenticator interface {
	Authenticate(token string) (domain.Sender, error)
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker
// initialization or lifecycle events, avoiding the need for manual naming
// in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
