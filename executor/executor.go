// Package executor runs the intent-specific action once a payload is
// complete. Executors are the only components that touch the record store.
package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cloudwego/eino/components/model"

	"convoagent/store"
	"convoagent/types"
)

// ErrMissingUserID signals an execution attempt without the required user
// context. It is terminal for the turn and nothing reaches the store.
var ErrMissingUserID = errors.New("executor: user_id is required")

// Executor performs one intent's action over a validated payload and returns
// the human-readable result.
type Executor interface {
	Execute(ctx context.Context, userID string, p types.Payload) (string, error)
}

// Set owns the shared dependencies and hands out the executor for each
// intent. The switch is exhaustive over the closed intent set, so adding an
// intent without an executor fails here instead of at a dict lookup.
type Set struct {
	store  store.Store
	chat   model.ToolCallingChatModel
	now    func() time.Time
	logger *slog.Logger
}

func NewSet(st store.Store, chat model.ToolCallingChatModel, now func() time.Time, logger *slog.Logger) *Set {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Set{store: st, chat: chat, now: now, logger: logger}
}

// For returns the executor for the intent.
func (s *Set) For(intent types.Intent) (Executor, error) {
	switch intent {
	case types.IntentCreateContent:
		return &createContent{s}, nil
	case types.IntentEditContent:
		return &editContent{s}, nil
	case types.IntentDeleteContent:
		return &deleteContent{s}, nil
	case types.IntentPublishContent:
		return &publishContent{s}, nil
	case types.IntentScheduleContent:
		return &scheduleContent{s}, nil
	case types.IntentViewContent:
		return &viewContent{s}, nil
	case types.IntentGenerateIdeas:
		return &generateIdeas{s}, nil
	case types.IntentCreateLeads:
		return &createLead{s}, nil
	case types.IntentViewLeads:
		return &viewLeads{s}, nil
	case types.IntentEditLeads:
		return &editLead{s}, nil
	case types.IntentDeleteLeads:
		return &deleteLead{s}, nil
	case types.IntentFollowUpLeads:
		return &followUpLead{s}, nil
	case types.IntentViewAnalytics:
		return &viewAnalytics{s}, nil
	case types.IntentGreeting:
		return &greet{s}, nil
	case types.IntentGeneralTalks:
		return &generalTalk{s}, nil
	default:
		return nil, fmt.Errorf("executor: no executor for intent %q", intent)
	}
}

// Execute dispatches and runs in one step.
func (s *Set) Execute(ctx context.Context, intent types.Intent, userID string, p types.Payload) (string, error) {
	if userID == "" {
		return "", ErrMissingUserID
	}
	ex, err := s.For(intent)
	if err != nil {
		return "", err
	}
	return ex.Execute(ctx, userID, p)
}
