package ws

import "encoding/json"

// Inbound event names accepted from clients.
const (
	EventChatJoined = "CHAT_JOINED"
	EventNewMessage = "NEW_MESSAGE"
)

// Frame is the envelope in both directions: an event name plus its JSON
// payload.
type Frame struct {
	Event string          `json:"event" validate:"required"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type OutboundFrame struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// JoinedPayload is the CHAT_JOINED declaration carrying the member
// identities the client wants to observe.
type JoinedPayload struct {
	Members []string `json:"members" validate:"required,min=1,dive,required"`
}

type AttachmentPayload struct {
	PublicID string `json:"public_id" validate:"required"`
	URL      string `json:"url" validate:"required,url"`
}

// MessagePayload is the NEW_MESSAGE submission. The member set comes from
// the caller on every submission; the core never caches chat membership.
type MessagePayload struct {
	ChatID      string              `json:"chatId" validate:"required"`
	Members     []string            `json:"members" validate:"required,min=1,dive,required"`
	Content     string              `json:"message" validate:"required,max=4096"`
	Attachments []AttachmentPayload `json:"attachments,omitempty" validate:"omitempty,dive"`
}
