// Package extract builds the partial payload for an intent out of free text.
// The model is asked for strict JSON; its output is salvaged, parsed and
// merged into the existing payload without ever regressing a known field.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"convoagent/jsonx"
	"convoagent/registry"
	"convoagent/types"
)

// ExtractionError signals that both extraction attempts produced unusable
// JSON. It is non-terminal: the prior payload is preserved and the user can
// rephrase on the next turn.
type ExtractionError struct {
	Intent types.Intent
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract: payload extraction failed for %s: %v", e.Intent, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Extractor produces an updated payload from the conversation so far.
type Extractor interface {
	Extract(ctx context.Context, intent types.Intent, transcript string, current types.Payload) (types.Payload, error)
}

// ModelExtractor drives one intent-specific extraction prompt per call, with
// a single in-process retry when the output is not a JSON object.
type ModelExtractor struct {
	chatModel model.ToolCallingChatModel
	now       func() time.Time
	location  *time.Location
	logger    *slog.Logger
}

func NewModelExtractor(chatModel model.ToolCallingChatModel, now func() time.Time, loc *time.Location, logger *slog.Logger) *ModelExtractor {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ModelExtractor{chatModel: chatModel, now: now, location: loc, logger: logger}
}

var _ Extractor = (*ModelExtractor)(nil)

func (e *ModelExtractor) Extract(ctx context.Context, intent types.Intent, transcript string, current types.Payload) (types.Payload, error) {
	spec, err := registry.SchemaFor(intent)
	if err != nil {
		return current, err
	}

	messages, err := e.buildPrompt(intent, spec, transcript, current, "")
	if err != nil {
		return current, &ExtractionError{Intent: intent, Err: err}
	}

	extracted, firstErr := e.attempt(ctx, messages)
	if firstErr != nil {
		e.logger.Warn("extraction attempt failed, retrying once",
			"intent", intent, "err", firstErr)
		messages, err = e.buildPrompt(intent, spec, transcript, current,
			"Respond with JSON ONLY. No explanation, no code fences, no surrounding text.")
		if err != nil {
			return current, &ExtractionError{Intent: intent, Err: err}
		}
		extracted, err = e.attempt(ctx, messages)
		if err != nil {
			// Both attempts failed: leave the collected payload untouched.
			return current, &ExtractionError{Intent: intent, Err: err}
		}
	}

	merged, err := MergeNonNull(current, filterToSchema(extracted, spec))
	if err != nil {
		return current, &ExtractionError{Intent: intent, Err: err}
	}
	return merged, nil
}

func (e *ModelExtractor) attempt(ctx context.Context, messages []*schema.Message) (map[string]any, error) {
	response, err := e.chatModel.Generate(ctx, messages)
	if err != nil {
		return nil, err
	}
	return jsonx.ExtractObject(response.Content)
}

func (e *ModelExtractor) buildPrompt(intent types.Intent, spec []types.FieldSpec, transcript string, current types.Payload, reminder string) ([]*schema.Message, error) {
	now := e.now().In(e.location)
	sections := []string{
		fmt.Sprintf(`You extract structured data for the task "%s" from a conversation.

Return one JSON object whose keys are exactly the field names below. Use null for anything the user has not said. Never guess. Use the allowed values verbatim where listed. Normalize date phrases ("yesterday", "next Friday") to literal ISO dates computed from the current date.`, intent),
		types.FormatDateSection(now),
		fmt.Sprintf("# Fields:\n%s", types.FormatFieldTable(spec)),
		types.FormatPayloadSection(current),
		"Output strict JSON with no surrounding text.",
	}
	if reminder != "" {
		sections = append(sections, reminder)
	}

	return []*schema.Message{
		schema.SystemMessage(strings.Join(sections, "\n\n")),
		schema.UserMessage(types.FormatTranscriptSection(transcript, "")),
	}, nil
}

func filterToSchema(extracted map[string]any, spec []types.FieldSpec) map[string]any {
	known := make(map[string]bool, len(spec))
	for _, f := range spec {
		known[f.Name] = true
	}
	out := make(map[string]any, len(extracted))
	for k, v := range extracted {
		if known[k] {
			out[k] = v
		}
	}
	return out
}
