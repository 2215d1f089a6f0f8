package agent

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"convoagent/types"
)

// DefaultSessionCapacity bounds how many conversations stay resident before
// the least recently used one is evicted.
const DefaultSessionCapacity = 1024

// Sessions keeps one ConversationState per conversation ID behind a
// per-conversation lock, so concurrent turns for the same conversation
// serialize while distinct conversations proceed in parallel.
type Sessions struct {
	mu    sync.Mutex
	cache *lru.Cache[string, *session]
}

type session struct {
	mu    sync.Mutex
	state *types.ConversationState
}

func NewSessions(capacity int) (*Sessions, error) {
	if capacity <= 0 {
		capacity = DefaultSessionCapacity
	}
	cache, err := lru.New[string, *session](capacity)
	if err != nil {
		return nil, fmt.Errorf("agent: create session cache: %w", err)
	}
	return &Sessions{cache: cache}, nil
}

// Handle is an acquired, locked conversation. Release must be called exactly
// once when the turn is over.
type Handle struct {
	sess *session
}

// Acquire locks the conversation and returns a handle to its state. A
// conversation seen for the first time (or evicted since its last turn)
// starts fresh.
func (s *Sessions) Acquire(conversationID string) *Handle {
	s.mu.Lock()
	sess, ok := s.cache.Get(conversationID)
	if !ok {
		sess = &session{state: types.NewConversationState()}
		s.cache.Add(conversationID, sess)
	}
	s.mu.Unlock()

	sess.mu.Lock()
	return &Handle{sess: sess}
}

func (h *Handle) State() *types.ConversationState { return h.sess.state }

// Reset replaces the conversation with a fresh state and returns it.
func (h *Handle) Reset() *types.ConversationState {
	h.sess.state = types.NewConversationState()
	return h.sess.state
}

func (h *Handle) Release() { h.sess.mu.Unlock() }

// Forget drops a conversation entirely.
func (s *Sessions) Forget(conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Remove(conversationID)
}

// Len reports how many conversations are resident.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Len()
}
