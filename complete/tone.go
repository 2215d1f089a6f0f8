package complete

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ToneRewriter optionally restyles a clarification question to match how the
// user has been writing. Failures must never block a clarification; the
// caller falls back to the unmodified template.
type ToneRewriter interface {
	Rewrite(ctx context.Context, question, transcript string) (string, error)
}

// ModelToneRewriter restyles questions with a single short model call.
type ModelToneRewriter struct {
	chatModel model.ToolCallingChatModel
}

func NewModelToneRewriter(chatModel model.ToolCallingChatModel) *ModelToneRewriter {
	return &ModelToneRewriter{chatModel: chatModel}
}

var _ ToneRewriter = (*ModelToneRewriter)(nil)

func (r *ModelToneRewriter) Rewrite(ctx context.Context, question, transcript string) (string, error) {
	response, err := r.chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(`Rewrite the assistant question so its tone and formality match the user's messages. Keep the meaning and any listed choices intact. Reply with the rewritten question only.`),
		schema.UserMessage(fmt.Sprintf("# User messages:\n%s\n\n# Question:\n%s", transcript, question)),
	})
	if err != nil {
		return "", fmt.Errorf("tone rewrite call failed: %w", err)
	}
	return response.Content, nil
}
