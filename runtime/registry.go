// Package runtime owns the shared connection and presence state and the
// event propagation built on top of it. It contains no transport or
// storage logic.
package runtime

import (
	"chat-hub/contract"
	"sync"
)

// Registry maps an authenticated identity to its single active connection
// sink. Last writer wins: re-registering an identity replaces the previous
// mapping and the replaced connection is no longer reachable through
// Resolve. The map never escapes; all access goes through the mutex.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]contract.EventSink
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]contract.EventSink)}
}

func (r *Registry) Register(identity string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[identity] = sink
}

// Unregister is idempotent; removing an absent identity is not an error.
func (r *Registry) Unregister(identity string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, identity)
}

// Resolve returns the sinks of the currently connected identities.
// Identities without a live connection are silently omitted, never an
// error condition.
func (r *Registry) Resolve(identities []string) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sinks []contract.EventSink
	for _, identity := range identities {
		if sink, ok := r.sessions[identity]; ok {
			sinks = append(sinks, sink)
		}
	}
	return sinks
}

// Current reports the sink presently registered for an identity. Teardown
// paths compare against it so a stale disconnect never evicts a newer
// connection.
func (r *Registry) Current(identity string) (contract.EventSink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sink, ok := r.sessions[identity]
	return sink, ok
}
