package intent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convoagent/llmtest"
	"convoagent/types"
)

func TestGreetingPrefilterSkipsModel(t *testing.T) {
	chat := llmtest.NewScriptedModel() // any model call would fail
	c := NewModelClassifier(chat, nil)

	got, err := c.Classify(context.Background(), "hey there!")
	require.NoError(t, err)
	assert.Equal(t, types.IntentGreeting, got)
	assert.Empty(t, chat.Calls())
}

func TestGreetingPrefilterLengthBound(t *testing.T) {
	assert.True(t, IsGreeting("Hello"))
	assert.True(t, IsGreeting("good morning to you all"))
	assert.False(t, IsGreeting("hello I want to create an Instagram post about shoes"))
	assert.False(t, IsGreeting("create a post"))
}

func TestClassifyExactLabel(t *testing.T) {
	chat := llmtest.NewScriptedModel(llmtest.Text("create_content"))
	c := NewModelClassifier(chat, nil)

	got, err := c.Classify(context.Background(), "Create an Instagram post about sneakers")
	require.NoError(t, err)
	assert.Equal(t, types.IntentCreateContent, got)
}

func TestClassifySubstringFallback(t *testing.T) {
	chat := llmtest.NewScriptedModel(llmtest.Text("The intent here is clearly view_leads."))
	c := NewModelClassifier(chat, nil)

	got, err := c.Classify(context.Background(), "show me my leads")
	require.NoError(t, err)
	assert.Equal(t, types.IntentViewLeads, got)
}

func TestClassifyUnknownLabelDefaultsToGeneralTalks(t *testing.T) {
	chat := llmtest.NewScriptedModel(llmtest.Text("order_pizza"))
	c := NewModelClassifier(chat, nil)

	got, err := c.Classify(context.Background(), "what's the weather like")
	require.NoError(t, err)
	assert.Equal(t, types.IntentGeneralTalks, got)
}

func TestClassifyModelFailure(t *testing.T) {
	chat := llmtest.NewScriptedModel(llmtest.Fail(errors.New("rate limited")))
	c := NewModelClassifier(chat, nil)

	_, err := c.Classify(context.Background(), "create a post for me")
	var cerr *ClassificationError
	require.ErrorAs(t, err, &cerr)
}
