package ws

import (
	"chat-hub/contract"
	"chat-hub/domain"
	"chat-hub/domain/event"
	"chat-hub/errors"
	"chat-hub/services"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"
)

const authCookie = "auth_token"

// Server upgrades /ws requests, authenticates them and bridges each
// connection to the chat service: one read loop parsing inbound frames,
// one write pump draining the connection's sink. The pump is the single
// writer on the socket; even error replies travel through the sink, so
// partial deliveries can never interleave on a connection.
type Server struct {
	log           *slog.Logger
	service       services.IChatService
	authenticator contract.IAuthenticator
	validate      *validator.Validate
	upgrader      websocket.Upgrader
	bufferSize    int
	writeTimeout  time.Duration
}

func NewServer(log *slog.Logger, service services.IChatService,
	authenticator contract.IAuthenticator, bufferSize int,
	writeTimeout time.Duration) *Server {
	return &Server{
		log:           log,
		service:       service,
		authenticator: authenticator,
		validate:      validator.New(),
		upgrader: websocket.Upgrader{
			// Origin enforcement is delegated to the reverse proxy.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		bufferSize:   bufferSize,
		writeTimeout: writeTimeout,
	}
}

// HandleWS authenticates the request, upgrades it and registers the
// connection. Authentication must succeed before Register: a rejected
// connection never touches core state.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	user, err := s.authenticator.Authenticate(tokenFromRequest(r))
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	sink := NewSink(s.bufferSize)
	s.service.Connect(user.ID, sink)
	s.log.Info("connection established", "identity", user.ID)

	ctx, cancel := context.WithCancel(r.Context())
	go s.writePump(ctx, conn, sink)

	s.readLoop(ctx, conn, user, sink)

	cancel()
	// The request context is already done here; teardown still has to
	// broadcast, so it runs on a fresh context.
	s.service.Disconnect(context.Background(), user.ID, sink)
	_ = conn.Close()
	s.log.Info("connection closed", "identity", user.ID)
}

func (s *Server) readLoop(ctx context.Context, conn *websocket.Conn, user domain.Sender, sink *Sink) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		s.handleFrame(ctx, raw, user, sink)
	}
}

func (s *Server) handleFrame(ctx context.Context, raw []byte, user domain.Sender, sink *Sink) {
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		s.reject(ctx, sink, errors.ErrMalformedEvent.Error())
		return
	}

	switch frame.Event {
	case EventChatJoined:
		var payload JoinedPayload
		if !s.decode(ctx, sink, frame.Data, &payload) {
			return
		}
		s.service.Joined(ctx, user.ID, payload.Members)
	case EventNewMessage:
		var payload MessagePayload
		if !s.decode(ctx, sink, frame.Data, &payload) {
			return
		}
		cmd := domain.SubmitMessageCommand{
			ChatID:     domain.ChatID(payload.ChatID),
			Members:    payload.Members,
			SenderID:   user.ID,
			SenderName: user.Name,
			Content:    payload.Content,
			Attachments: lo.Map(payload.Attachments, func(a AttachmentPayload, _ int) domain.Attachment {
				return domain.Attachment{PublicID: a.PublicID, URL: a.URL}
			}),
		}
		if err := s.service.SubmitMessage(ctx, cmd); err != nil {
			s.reject(ctx, sink, err.Error())
		}
	default:
		s.reject(ctx, sink, errors.ErrUnknownEvent.Error())
	}
}

func (s *Server) decode(ctx context.Context, sink *Sink, data json.RawMessage, out any) bool {
	if err := json.Unmarshal(data, out); err != nil {
		s.reject(ctx, sink, errors.ErrMalformedEvent.Error())
		return false
	}
	if err := s.validate.Struct(out); err != nil {
		s.reject(ctx, sink, errors.ErrMalformedEvent.Error())
		return false
	}
	return true
}

// reject replies with an ERROR event. Malformed events are rejected
// explicitly, never dropped silently, to keep client and server state
// observable.
func (s *Server) reject(ctx context.Context, sink *Sink, reason string) {
	_ = sink.Consume(ctx, event.Error{Error: reason})
}

func (s *Server) writePump(ctx context.Context, conn *websocket.Conn, sink *Sink) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-sink.Events:
			_ = conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
			if err := conn.WriteJSON(OutboundFrame{Event: evt.Name(), Data: evt}); err != nil {
				s.log.Warn("failed to push event to connection", "error", err)
				return
			}
		}
	}
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(authCookie); err == nil {
		return cookie.Value
	}
	return r.URL.Query().Get("token")
}
