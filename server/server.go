// Package server exposes the assistant over HTTP and WebSocket. Both
// transports speak the same request/response shape; the WebSocket keeps one
// conversation per connection alive across turns.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"convoagent/types"
)

// TurnProcessor is the slice of the agent the transports need.
type TurnProcessor interface {
	ProcessTurn(ctx context.Context, conversationID, userID, message string, attachments []types.Attachment) (*types.TurnResult, error)
}

// ChatRequest is one turn over the wire. Attachment data rides as base64 in
// the JSON payload.
type ChatRequest struct {
	ConversationID string `json:"conversation_id"`
	UserID         string `json:"user_id"`
	Message        string `json:"message"`
	Attachments    []struct {
		Name        string `json:"name"`
		ContentType string `json:"content_type"`
		Data        []byte `json:"data"`
	} `json:"attachments,omitempty"`
}

func (r *ChatRequest) attachments() []types.Attachment {
	if len(r.Attachments) == 0 {
		return nil
	}
	out := make([]types.Attachment, 0, len(r.Attachments))
	for _, a := range r.Attachments {
		out = append(out, types.Attachment{Name: a.Name, ContentType: a.ContentType, Data: a.Data})
	}
	return out
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server serves the chat API.
type Server struct {
	agent    TurnProcessor
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func New(agent TurnProcessor, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		agent:  agent,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  32 << 10,
			WriteBufferSize: 32 << 10,
		},
	}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/chat", s.handleChat)
	mux.HandleFunc("GET /v1/ws", s.handleWS)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.ConversationID == "" {
		req.ConversationID = uuid.NewString()
	}

	res, err := s.agent.ProcessTurn(r.Context(), req.ConversationID, req.UserID, req.Message, req.attachments())
	if err != nil {
		s.logger.Error("turn failed", "conversation", req.ConversationID, "err", err)
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	s.writeJSON(w, http.StatusOK, chatResponse(req.ConversationID, res))
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	// One conversation per socket unless the client names its own.
	defaultConversation := uuid.NewString()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) &&
				!errors.Is(err, context.Canceled) {
				s.logger.Debug("websocket read ended", "err", err)
			}
			return
		}

		var req ChatRequest
		if err := sonic.Unmarshal(data, &req); err != nil {
			if err := conn.WriteJSON(errorResponse{Error: "invalid JSON message"}); err != nil {
				return
			}
			continue
		}
		if req.ConversationID == "" {
			req.ConversationID = defaultConversation
		}

		res, err := s.agent.ProcessTurn(r.Context(), req.ConversationID, req.UserID, req.Message, req.attachments())
		if err != nil {
			s.logger.Error("turn failed", "conversation", req.ConversationID, "err", err)
			if err := conn.WriteJSON(errorResponse{Error: "internal error"}); err != nil {
				return
			}
			continue
		}
		if err := conn.WriteJSON(chatResponse(req.ConversationID, res)); err != nil {
			return
		}
	}
}

// ChatResponse is a TurnResult plus the conversation it belongs to, so
// clients without a pre-assigned ID can continue the same conversation.
type ChatResponse struct {
	ConversationID string `json:"conversation_id"`
	*types.TurnResult
}

func chatResponse(conversationID string, res *types.TurnResult) ChatResponse {
	return ChatResponse{ConversationID: conversationID, TurnResult: res}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := sonic.ConfigDefault.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response", "err", err)
	}
}
