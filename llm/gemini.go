package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

// Gemini adapts the official genai client to eino's ToolCallingChatModel.
// Tool binding is emulated: when tools are attached the model is asked for a
// strict JSON object, and the reply text is wrapped as the forced tool call
// the structured chains expect.
type Gemini struct {
	cli   *genai.Client
	model string
	tools []*schema.ToolInfo
}

func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("llm: create gemini client: %w", err)
	}
	return &Gemini{cli: cli, model: modelName}, nil
}

var _ model.ToolCallingChatModel = (*Gemini)(nil)

func (g *Gemini) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	clone := *g
	clone.tools = tools
	return &clone, nil
}

func (g *Gemini) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	contents, system := splitMessages(input)

	cfg := &genai.GenerateContentConfig{}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}
	if len(g.tools) > 0 {
		cfg.ResponseMIMEType = "application/json"
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{
			Text: system + "\n\n" + g.toolContract(),
		}}}
	}

	resp, err := g.cli.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("llm: gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("llm: gemini returned an empty candidate")
	}
	text := resp.Candidates[0].Content.Parts[0].Text

	msg := &schema.Message{Role: schema.Assistant, Content: text}
	if len(g.tools) > 0 {
		msg.Content = ""
		msg.ToolCalls = []schema.ToolCall{{
			ID:       "gemini-call-0",
			Function: schema.FunctionCall{Name: g.tools[0].Name, Arguments: text},
		}}
	}
	return msg, nil
}

func (g *Gemini) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := g.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

// toolContract renders the first bound tool as a JSON-output instruction.
// Field-level guidance comes from the caller's own prompt.
func (g *Gemini) toolContract() string {
	tool := g.tools[0]
	return fmt.Sprintf("Respond with one JSON object that is a valid argument for %q (%s). No surrounding text.",
		tool.Name, tool.Desc)
}

// splitMessages turns eino messages into genai contents, pulling system
// messages out into a single instruction string.
func splitMessages(input []*schema.Message) ([]*genai.Content, string) {
	var system []string
	contents := make([]*genai.Content, 0, len(input))
	for _, msg := range input {
		switch msg.Role {
		case schema.System:
			system = append(system, msg.Content)
		case schema.Assistant:
			contents = append(contents, &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		default:
			contents = append(contents, &genai.Content{
				Role:  "user",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		}
	}
	return contents, strings.Join(system, "\n\n")
}
