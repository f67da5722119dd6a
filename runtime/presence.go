package runtime

import (
	"sort"
	"sync"
)

// Presence tracks which identities are explicitly online. Connected and
// online are distinct states: an identity becomes online only after its
// connection declares CHAT_JOINED, so a client can stay connected for
// notifications without appearing online to contacts.
//
// The member set declared in the last CHAT_JOINED is remembered per
// identity so disconnect broadcasts can be scoped to the contacts that
// actually observed the identity, instead of leaking presence globally.
type Presence struct {
	mu       sync.RWMutex
	contacts map[string][]string
}

func NewPresence() *Presence {
	return &Presence{contacts: make(map[string][]string)}
}

// MarkOnline is idempotent; a repeated joined declaration just refreshes
// the declared contact set.
func (p *Presence) MarkOnline(identity string, contacts []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.contacts[identity] = append([]string(nil), contacts...)
}

// MarkOffline removes the identity from the online set and returns the
// contacts it last declared, for the scoped teardown broadcast. Idempotent.
func (p *Presence) MarkOffline(identity string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	contacts := p.contacts[identity]
	delete(p.contacts, identity)
	return contacts
}

// Snapshot returns the current online set, sorted for stable payloads.
func (p *Presence) Snapshot() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	online := make([]string, 0, len(p.contacts))
	for identity := range p.contacts {
		online = append(online, identity)
	}
	sort.Strings(online)
	return online
}

// Scoped returns the online subset of targets, so presence broadcasts
// never reveal identities outside the requester's contacts.
func (p *Presence) Scoped(targets []string) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var online []string
	for _, identity := range targets {
		if _, ok := p.contacts[identity]; ok {
			online = append(online, identity)
		}
	}
	sort.Strings(online)
	return online
}
