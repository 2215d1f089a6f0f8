package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convoagent/types"
)

// stubAgent echoes the message back and records what it saw.
type stubAgent struct {
	lastConversation string
	lastUser         string
	lastAttachments  []types.Attachment
}

func (s *stubAgent) ProcessTurn(ctx context.Context, conversationID, userID, message string, attachments []types.Attachment) (*types.TurnResult, error) {
	s.lastConversation = conversationID
	s.lastUser = userID
	s.lastAttachments = attachments
	return &types.TurnResult{
		Result:  "echo: " + message,
		Intent:  "general_talks",
		Payload: types.Payload{},
	}, nil
}

func TestChatEndpoint(t *testing.T) {
	stub := &stubAgent{}
	ts := httptest.NewServer(New(stub, nil).Handler())
	defer ts.Close()

	body := `{"conversation_id": "c1", "user_id": "u1", "message": "hello"}`
	resp, err := http.Post(ts.URL+"/v1/chat", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out ChatResponse
	require.NoError(t, sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "c1", out.ConversationID)
	assert.Equal(t, "echo: hello", out.Result)
	assert.Equal(t, "u1", stub.lastUser)
}

func TestChatEndpointAssignsConversationID(t *testing.T) {
	stub := &stubAgent{}
	ts := httptest.NewServer(New(stub, nil).Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/v1/chat", "application/json",
		strings.NewReader(`{"user_id": "u1", "message": "hi"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out ChatResponse
	require.NoError(t, sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&out))
	assert.NotEmpty(t, out.ConversationID)
	assert.Equal(t, out.ConversationID, stub.lastConversation)
}

func TestChatEndpointRejectsBadJSON(t *testing.T) {
	ts := httptest.NewServer(New(&stubAgent{}, nil).Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/v1/chat", "application/json", bytes.NewReader([]byte("{nope")))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChatEndpointDecodesAttachments(t *testing.T) {
	stub := &stubAgent{}
	ts := httptest.NewServer(New(stub, nil).Handler())
	defer ts.Close()

	req := map[string]any{
		"conversation_id": "c2",
		"user_id":         "u1",
		"message":         types.UploadSentinel,
		"attachments": []map[string]any{
			{"name": "pic.png", "content_type": "image/png", "data": []byte("png-bytes")},
		},
	}
	raw, err := sonic.Marshal(req)
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/v1/chat", "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Len(t, stub.lastAttachments, 1)
	assert.Equal(t, "pic.png", stub.lastAttachments[0].Name)
	assert.Equal(t, []byte("png-bytes"), stub.lastAttachments[0].Data)
}

func TestWebSocketConversation(t *testing.T) {
	stub := &stubAgent{}
	ts := httptest.NewServer(New(stub, nil).Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]string{"user_id": "u1", "message": "first"}))
	var out ChatResponse
	require.NoError(t, conn.ReadJSON(&out))
	assert.Equal(t, "echo: first", out.Result)
	firstConversation := out.ConversationID
	assert.NotEmpty(t, firstConversation)

	// The socket pins the conversation across turns.
	require.NoError(t, conn.WriteJSON(map[string]string{"user_id": "u1", "message": "second"}))
	require.NoError(t, conn.ReadJSON(&out))
	assert.Equal(t, firstConversation, out.ConversationID)
}

func TestWebSocketBadJSON(t *testing.T) {
	ts := httptest.NewServer(New(&stubAgent{}, nil).Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{nope")))
	var out errorResponse
	require.NoError(t, conn.ReadJSON(&out))
	assert.Contains(t, out.Error, "invalid JSON")
}

func TestHealthz(t *testing.T) {
	ts := httptest.NewServer(New(&stubAgent{}, nil).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
