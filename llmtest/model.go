// Package llmtest provides a scripted chat model for offline tests. Each
// Generate call pops the next canned reply and records the prompt it saw.
package llmtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// Reply is one canned model response: plain text, forced tool-call
// arguments, or an error.
type Reply struct {
	Content  string
	ToolArgs string
	Err      error
}

func Text(content string) Reply   { return Reply{Content: content} }
func Tool(args string) Reply      { return Reply{ToolArgs: args} }
func Fail(err error) Reply        { return Reply{Err: err} }
func Failf(f string, a ...any) Reply { return Reply{Err: fmt.Errorf(f, a...)} }

// Call records one Generate invocation for assertions on prompt content.
type Call struct {
	Messages []*schema.Message
}

// ScriptedModel implements model.ToolCallingChatModel with a fixed reply
// queue shared across WithTools clones.
type ScriptedModel struct {
	mu      sync.Mutex
	replies []Reply
	calls   []Call
	tools   []*schema.ToolInfo
}

func NewScriptedModel(replies ...Reply) *ScriptedModel {
	return &ScriptedModel{replies: replies}
}

var _ model.ToolCallingChatModel = (*ScriptedModel)(nil)

// Enqueue appends more replies mid-test.
func (m *ScriptedModel) Enqueue(replies ...Reply) {
	m.mu.Lock()
	m.replies = append(m.replies, replies...)
	m.mu.Unlock()
}

// Calls returns every Generate invocation seen so far.
func (m *ScriptedModel) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// Remaining reports how many scripted replies are left unconsumed.
func (m *ScriptedModel) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.replies)
}

func (m *ScriptedModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{Messages: input})
	if len(m.replies) == 0 {
		m.mu.Unlock()
		return nil, fmt.Errorf("llmtest: no scripted reply left (call %d)", len(m.calls))
	}
	reply := m.replies[0]
	m.replies = m.replies[1:]
	tools := m.tools
	m.mu.Unlock()

	if reply.Err != nil {
		return nil, reply.Err
	}
	msg := &schema.Message{Role: schema.Assistant, Content: reply.Content}
	if reply.ToolArgs != "" {
		name := "scripted_tool"
		if len(tools) > 0 {
			name = tools[0].Name
		}
		msg.ToolCalls = []schema.ToolCall{{
			ID:       "call-0",
			Function: schema.FunctionCall{Name: name, Arguments: reply.ToolArgs},
		}}
	}
	return msg, nil
}

func (m *ScriptedModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (m *ScriptedModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	m.mu.Lock()
	m.tools = tools
	m.mu.Unlock()
	return m, nil
}
