package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cloudwego/eino/schema"
)

func TestNewValidatesConfig(t *testing.T) {
	ctx := context.Background()

	_, err := New(ctx, Config{Provider: ProviderOpenAI, Model: "gpt-4o"})
	assert.ErrorContains(t, err, "api key")

	_, err = New(ctx, Config{Provider: ProviderOpenAI, APIKey: "k"})
	assert.ErrorContains(t, err, "model name")

	_, err = New(ctx, Config{Provider: "watson", APIKey: "k", Model: "m"})
	assert.ErrorContains(t, err, "unknown provider")
}

func TestSplitMessages(t *testing.T) {
	contents, system := splitMessages([]*schema.Message{
		schema.SystemMessage("you are helpful"),
		schema.UserMessage("hello"),
		{Role: schema.Assistant, Content: "hi"},
		schema.SystemMessage("stay terse"),
	})

	assert.Equal(t, "you are helpful\n\nstay terse", system)
	assert.Len(t, contents, 2)
	assert.Equal(t, "hello", contents[0].Parts[0].Text)
	assert.Equal(t, "hi", contents[1].Parts[0].Text)
}
