package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatID identifies a conversation. Membership is owned by the chat
// collaborator and supplied on every call; the core never infers or
// caches it.
type ChatID string

// Sender is the denormalized summary attached to realtime messages so
// clients can render without an extra user lookup.
type Sender struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Attachment references a file already uploaded through the storage
// collaborator. The core forwards it untouched.
type Attachment struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

// RealtimeMessage is built at submission time, delivered once and then
// discarded. Its ID is generated locally and is never reconciled with
// the durable record's ID.
type RealtimeMessage struct {
	ID          uuid.UUID    `json:"_id"`
	Content     string       `json:"content"`
	Sender      Sender       `json:"sender"`
	ChatID      ChatID       `json:"chat"`
	Attachments []Attachment `json:"attachments,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// StoredMessage is the durable record read back from the message repository.
type StoredMessage struct {
	ID          uuid.UUID
	ChatID      ChatID
	Sender      string
	Content     string
	Attachments []Attachment
	CreatedAt   time.Time
}
