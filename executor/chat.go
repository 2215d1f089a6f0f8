package executor

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"convoagent/types"
)

const assistantPersona = `You are a friendly assistant for a content and lead management workspace.
You help users draft and publish social content, manage their CRM leads, and read simple analytics.
Keep replies short and conversational.`

type greet struct{ *Set }

func (e *greet) Execute(ctx context.Context, userID string, p types.Payload) (string, error) {
	reply, err := converse(ctx, e.Set, p.String("user_message"))
	if err != nil {
		// A greeting never fails the turn; fall back to a fixed line.
		e.logger.Warn("greeting model call failed, using fallback", "error", err)
		return "Hi! I can help you create content, manage leads, or check analytics. What would you like to do?", nil
	}
	return reply, nil
}

type generalTalk struct{ *Set }

func (e *generalTalk) Execute(ctx context.Context, userID string, p types.Payload) (string, error) {
	reply, err := converse(ctx, e.Set, p.String("user_message"))
	if err != nil {
		return "", fmt.Errorf("general talk: %w", err)
	}
	return reply, nil
}

func converse(ctx context.Context, s *Set, userMessage string) (string, error) {
	if strings.TrimSpace(userMessage) == "" {
		userMessage = "Hello"
	}
	response, err := s.chat.Generate(ctx, []*schema.Message{
		schema.SystemMessage(assistantPersona),
		schema.UserMessage(userMessage),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(response.Content), nil
}
