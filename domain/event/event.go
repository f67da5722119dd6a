// Package event defines the outbound events the core produces. The Name of
// each event is the wire identifier socket clients subscribe to.
package event

import "chat-hub/domain"

type Event interface {
	Name() string
}

// NewMessage carries the full realtime record to every member connection.
type NewMessage struct {
	ChatID  domain.ChatID          `json:"chatId"`
	Message domain.RealtimeMessage `json:"message"`
}

func (NewMessage) Name() string { return "NEW_MESSAGE" }

// NewMessageAlert is the lightweight companion signal for clients not
// actively viewing the chat (badge counters).
type NewMessageAlert struct {
	ChatID domain.ChatID `json:"chatId"`
}

func (NewMessageAlert) Name() string { return "NEW_MESSAGE_ALERT" }

type OnlineUsers struct {
	Users []string `json:"users"`
}

func (OnlineUsers) Name() string { return "ONLINE_USERS" }

// Alert is a human-readable notice pushed by chat management flows
// (group created, member removed, member left).
type Alert struct {
	Text string `json:"text"`
}

func (Alert) Name() string { return "ALERT" }

// RefetchChats tells a client its chat list went stale.
type RefetchChats struct{}

func (RefetchChats) Name() string { return "REFETCH_CHATS" }

// Error is the reply to a malformed inbound frame.
type Error struct {
	Error string `json:"error"`
}

func (Error) Name() string { return "ERROR" }
