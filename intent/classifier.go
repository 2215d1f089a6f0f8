// Package intent classifies user goals: first-turn classification into the
// closed intent set, and per-turn change detection against the committed
// intent.
package intent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"convoagent/types"
)

// ClassificationError wraps an underlying model failure. It is terminal for
// the turn: the caller produces an error result without advancing state.
type ClassificationError struct {
	Err error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("intent: classification failed: %v", e.Err)
}

func (e *ClassificationError) Unwrap() error { return e.Err }

// Classifier assigns one intent label to the conversation so far.
type Classifier interface {
	Classify(ctx context.Context, transcript string) (types.Intent, error)
}

// greetingWords is the short-circuit set: a message of at most five tokens
// that starts with one of these never reaches the model.
var greetingWords = map[string]bool{
	"hi": true, "hello": true, "hey": true, "yo": true,
	"hola": true, "howdy": true, "greetings": true,
	"good": true, // good morning / good afternoon / good evening
}

// IsGreeting reports whether the message matches the greeting prefilter.
func IsGreeting(message string) bool {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(message)))
	if len(fields) == 0 || len(fields) > 5 {
		return false
	}
	first := strings.Trim(fields[0], "!,.?")
	return greetingWords[first]
}

// ModelClassifier asks the chat model for a label and normalizes whatever
// comes back. Messy output degrades through substring matching to
// general_talks; only a failed model call is an error.
type ModelClassifier struct {
	chatModel model.ToolCallingChatModel
	logger    *slog.Logger
}

func NewModelClassifier(chatModel model.ToolCallingChatModel, logger *slog.Logger) *ModelClassifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &ModelClassifier{chatModel: chatModel, logger: logger}
}

var _ Classifier = (*ModelClassifier)(nil)

func (c *ModelClassifier) Classify(ctx context.Context, transcript string) (types.Intent, error) {
	if IsGreeting(latestLine(transcript)) {
		return types.IntentGreeting, nil
	}

	labels := make([]string, 0, len(types.AllIntents))
	for _, i := range types.AllIntents {
		labels = append(labels, string(i))
	}
	systemPrompt := fmt.Sprintf(`You are the intent router of a content and lead management assistant.

Read the conversation and answer with exactly one label from this list, nothing else:
%s

Pick general_talks for chit-chat or anything that fits no other label.`, strings.Join(labels, ", "))

	response, err := c.chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(types.FormatTranscriptSection(transcript, "")),
	})
	if err != nil {
		return "", &ClassificationError{Err: err}
	}

	label, ok := types.ParseIntent(response.Content)
	if !ok {
		c.logger.Warn("classifier returned unknown label, defaulting to general_talks",
			"raw", response.Content)
		return types.IntentGeneralTalks, nil
	}
	return label, nil
}

func latestLine(transcript string) string {
	idx := strings.LastIndexByte(strings.TrimRight(transcript, "\n"), '\n')
	if idx < 0 {
		return transcript
	}
	return transcript[idx+1:]
}
